package admin

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"mercator-hq/waypoint/pkg/httpmsg"
	"mercator-hq/waypoint/pkg/stats"
)

// Command keywords, in dispatch order.
const (
	CmdPacketLength = "packet length stats"
	CmdTypeCount    = "type count"
	CmdStatusCount  = "status count"
	CmdTop          = "top"
	CmdExit         = "exit"
)

// Fixed replies.
const (
	ReplyBye        = "Bye"
	ReplyBadRequest = "Bad Request"
)

// Execute answers one command line on w. It reports whether the connection
// should close.
func Execute(w io.Writer, agg *stats.Aggregator, line string) (quit bool, err error) {
	bw := bufio.NewWriter(w)

	switch {
	case strings.Contains(line, CmdPacketLength):
		writePacketLengths(bw, agg.Snapshot())
	case strings.Contains(line, CmdTypeCount):
		for _, tc := range agg.Snapshot().Types {
			fmt.Fprintf(bw, "%s: %d\n", tc.Type, tc.Count)
		}
	case strings.Contains(line, CmdStatusCount):
		for _, sc := range agg.Snapshot().Statuses {
			fmt.Fprintf(bw, "%d %s: %d\n", sc.Code, httpmsg.StatusText(sc.Code), sc.Count)
		}
	case strings.Contains(line, CmdTop):
		for _, host := range agg.TopHosts(topCount(line)) {
			fmt.Fprintln(bw, host)
		}
	case strings.Contains(line, CmdExit):
		fmt.Fprintln(bw, ReplyBye)
		quit = true
	default:
		fmt.Fprintln(bw, ReplyBadRequest)
	}

	return quit, bw.Flush()
}

func writePacketLengths(w io.Writer, snap stats.Snapshot) {
	fmt.Fprintf(w, "Packet length received from servers(mean, std): (%f, %f)\n",
		snap.ServerPacketLength.Mean(), snap.ServerPacketLength.StdDev())
	fmt.Fprintf(w, "Packet length received from clients(mean, std): (%f, %f)\n",
		snap.ClientPacketLength.Mean(), snap.ClientPacketLength.StdDev())
	fmt.Fprintf(w, "Body length received from servers(mean, std): (%f, %f)\n",
		snap.ServerBodyLength.Mean(), snap.ServerBodyLength.StdDev())
}

// topCount reads k from the text after the first space of line, using the
// leading-integer rule: optional blanks and sign, then digits, anything else
// stops the number. No space or no digits gives 0.
func topCount(line string) int {
	i := strings.IndexByte(line, ' ')
	if i < 0 {
		return 0
	}
	s := strings.TrimLeft(line[i+1:], " \t")

	neg := false
	if s != "" && (s[0] == '+' || s[0] == '-') {
		neg = s[0] == '-'
		s = s[1:]
	}

	n := 0
	for j := 0; j < len(s) && s[j] >= '0' && s[j] <= '9'; j++ {
		if n > (1<<31)/10 {
			break
		}
		n = n*10 + int(s[j]-'0')
	}
	if neg {
		return 0
	}
	return n
}
