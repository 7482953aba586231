/*
Package cli provides command-line helpers used by the waypoint command.

Output Formatting:

Commands that print records accept --format text, json or csv:

	formatter := cli.NewFormatter(cli.FormatCSV)
	table := &cli.Table{Headers: []string{"host", "status"}}
	table.Append("example.com", "200")
	if err := formatter.FormatTo(os.Stdout, table); err != nil {
		return err
	}

Signal Handling:

For graceful shutdown on SIGINT/SIGTERM:

	ctx, stop := cli.SetupSignalHandler(context.Background())
	defer stop()
*/
package cli
