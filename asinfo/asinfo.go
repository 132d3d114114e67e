package asinfo

import (
	"bufio"
	"context"
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/byu-imaal/dns-cookies-pam21/utils"
	"golang.org/x/sync/errgroup"
)

// DefaultServer is Team Cymru's public IP-to-ASN whois endpoint. See
// https://www.team-cymru.com/IP-ASN-mapping for the service description.
const DefaultServer = "whois.cymru.com:43"

// chunkSize caps the addresses sent over one connection to reduce load on
// the public server.
const chunkSize = 5000

// Options tunes bulk lookups. The zero value queries the default server,
// one chunk at a time, without the AS name column.
type Options struct {
	// Verbose asks the server for the additional AS name column.
	Verbose bool
	// Server overrides the whois endpoint, host:port.
	Server string
	// Concurrency bounds the number of chunks in flight at once.
	Concurrency int
}

func (o Options) server() string {
	return utils.Ternary(o.Server == "", DefaultServer, o.Server).(string)
}

func (o Options) limit() int {
	return utils.Ternary(o.Concurrency > 0, o.Concurrency, 1).(int)
}

// Lookup resolves AS information for a single IP address, one line like
// "6510 | 128.187.0.0/16 | US | arin | 1987-01-07". Deadlines come from
// ctx.
func Lookup(ctx context.Context, ip string) (string, error) {
	lines, err := query(ctx, DefaultServer, ip+"\n")
	if err != nil {
		return "", err
	}
	if len(lines) == 0 {
		return "", fmt.Errorf("no answer for %s", ip)
	}
	return lines[0], nil
}

// LookupBulk resolves AS information for many IPs using the server's bulk
// mode, one response line per address in input order. Addresses are split
// into chunks of at most 5000, each sent over its own connection; chunks
// run through an errgroup bounded by Options.Concurrency.
func LookupBulk(ctx context.Context, ips []string, opts Options) ([]string, error) {
	if len(ips) == 0 {
		return nil, nil
	}

	chunks := utils.Chunk(ips, chunkSize)
	results := make([][]string, len(chunks))

	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(opts.limit())
	for idx, chunk := range chunks {
		idx, chunk := idx, chunk
		group.Go(func() error {
			lines, err := query(ctx, opts.server(), bulkRequest(chunk, opts.Verbose))
			if err != nil {
				return err
			}
			results[idx] = lines
			return nil
		})
	}
	if err := group.Wait(); err != nil {
		return nil, err
	}

	merged := make([]string, 0, len(ips))
	for _, lines := range results {
		merged = append(merged, lines...)
	}
	return merged, nil
}

// bulkRequest frames one chunk the way the bulk endpoint expects:
// "begin", optional "verbose", one address per line, "end".
func bulkRequest(ips []string, verbose bool) string {
	var sb strings.Builder
	sb.WriteString("begin\n")
	if verbose {
		sb.WriteString("verbose\n")
	}
	sb.WriteString(strings.Join(ips, "\n"))
	sb.WriteString("\nend\n")
	return sb.String()
}

// query sends one whois request and collects the response lines, dropping
// the leading banner line the server always sends.
func query(ctx context.Context, server, request string) ([]string, error) {
	var conn net.Conn
	err := utils.RetryExec(func() error {
		var dialErr error
		conn, dialErr = (&net.Dialer{}).DialContext(ctx, "tcp", server)
		return dialErr
	}, 2, time.Second)
	if err != nil {
		return nil, fmt.Errorf("failed to reach %s: %s", server, err)
	}
	defer conn.Close()

	if deadline, ok := ctx.Deadline(); ok {
		if err := conn.SetDeadline(deadline); err != nil {
			return nil, fmt.Errorf("failed to set deadline: %s", err)
		}
	}
	if _, err := conn.Write([]byte(request)); err != nil {
		return nil, fmt.Errorf("failed to send whois request: %s", err)
	}

	var lines []string
	banner := true
	scanner := bufio.NewScanner(conn)
	for scanner.Scan() {
		if banner {
			banner = false
			continue
		}
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		lines = append(lines, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed reading whois response: %s", err)
	}
	return lines, nil
}
