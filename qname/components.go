package qname

import (
	crand "crypto/rand"
	"encoding/base32"
	"encoding/binary"
	"fmt"
	"math/rand"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/oklog/ulid"
)

const (
	lowerAlpha = "abcdefghijklmnopqrstuvwxyz"
	digits     = "0123456789"
)

// Defaults returns the built-in component set.
func Defaults() []Component {
	return []Component{
		keywordComponent{},
		ipComponent{},
		hostComponent{},
		timestampComponent{},
		microsComponent{},
		uniqueComponent{},
		uuidComponent{},
		randomComponent{id: "$randalpha", alphabet: lowerAlpha},
		randomComponent{id: "$randnum", alphabet: digits},
		randomComponent{id: "$randalphanum", alphabet: lowerAlpha + digits},
		base32Component{},
	}
}

// b32Label encodes data as lowercase unpadded base32, safe for a DNS
// label.
func b32Label(data []byte) string {
	return strings.ToLower(strings.TrimRight(base32.StdEncoding.EncodeToString(data), "="))
}

func b32Decode(label string) ([]byte, error) {
	padded := strings.ToUpper(label)
	if rem := len(padded) % 8; rem != 0 {
		padded += strings.Repeat("=", 8-rem)
	}
	return base32.StdEncoding.DecodeString(padded)
}

// timestampArg reads the optional "timestamp" argument, defaulting to the
// current time. Numbers are epoch seconds.
func timestampArg(args map[string]any) (time.Time, error) {
	switch v := args["timestamp"].(type) {
	case nil:
		return time.Now(), nil
	case time.Time:
		return v, nil
	case float64:
		sec := int64(v)
		return time.Unix(sec, int64((v-float64(sec))*1e9)), nil
	case int64:
		return time.Unix(v, 0), nil
	case int:
		return time.Unix(int64(v), 0), nil
	default:
		return time.Time{}, fmt.Errorf("timestamp must be a time.Time or a number, got %T", v)
	}
}

func lengthArg(args map[string]any) (int, error) {
	switch v := args["length"].(type) {
	case nil:
		return 8, nil
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		return int(v), nil
	default:
		return 0, fmt.Errorf("length must be an integer, got %T", v)
	}
}

// keywordComponent renders an arbitrary caller-supplied value verbatim.
type keywordComponent struct{}

func (keywordComponent) ID() string             { return "$key" }
func (keywordComponent) RequiredArgs() []string { return []string{"val"} }
func (keywordComponent) OptionalArgs() []string { return nil }

func (keywordComponent) Parse(label string) (any, error) { return label, nil }

func (keywordComponent) Generate(args map[string]any) (string, error) {
	return fmt.Sprint(args["val"]), nil
}

// ipComponent encodes an IP address as an unpadded base32 label: 7 chars
// for IPv4, 26 for IPv6.
type ipComponent struct{}

func (ipComponent) ID() string             { return "$ip" }
func (ipComponent) RequiredArgs() []string { return []string{"ip_addr"} }
func (ipComponent) OptionalArgs() []string { return nil }

func (ipComponent) Generate(args map[string]any) (string, error) {
	raw, ok := args["ip_addr"].(string)
	if !ok {
		return "", fmt.Errorf("ip_addr must be a string, got %T", args["ip_addr"])
	}
	ip := net.ParseIP(raw)
	if ip == nil {
		return "", fmt.Errorf("invalid IP address %q", raw)
	}
	if v4 := ip.To4(); v4 != nil {
		return b32Label(v4), nil
	}
	return b32Label(ip.To16()), nil
}

func (ipComponent) Parse(label string) (any, error) {
	data, err := b32Decode(label)
	if err != nil {
		return nil, fmt.Errorf("failed to decode ip label: %s", err)
	}
	if len(data) != net.IPv4len && len(data) != net.IPv6len {
		return nil, fmt.Errorf("ip label decodes to %d bytes", len(data))
	}
	return net.IP(data).String(), nil
}

// hostComponent emits the local hostname folded into a single safe label.
type hostComponent struct{}

func (hostComponent) ID() string             { return "$host" }
func (hostComponent) RequiredArgs() []string { return nil }
func (hostComponent) OptionalArgs() []string { return nil }

func (hostComponent) Parse(label string) (any, error) { return label, nil }

func (hostComponent) Generate(map[string]any) (string, error) {
	host, err := os.Hostname()
	if err != nil {
		return "", fmt.Errorf("failed to read hostname: %s", err)
	}
	// dots would split the label; hostnames are folded to stay one label
	return strings.ToLower(strings.ReplaceAll(host, ".", "-")), nil
}

// timestampComponent encodes epoch seconds as a 7-char base32 label.
type timestampComponent struct{}

func (timestampComponent) ID() string             { return "$ts" }
func (timestampComponent) RequiredArgs() []string { return nil }
func (timestampComponent) OptionalArgs() []string { return []string{"timestamp"} }

func (timestampComponent) Generate(args map[string]any) (string, error) {
	t, err := timestampArg(args)
	if err != nil {
		return "", err
	}
	var buf [4]byte
	binary.BigEndian.PutUint32(buf[:], uint32(t.Unix()))
	return b32Label(buf[:]), nil
}

func (timestampComponent) Parse(label string) (any, error) {
	data, err := b32Decode(label)
	if err != nil {
		return nil, fmt.Errorf("failed to decode timestamp label: %s", err)
	}
	if len(data) != 4 {
		return nil, fmt.Errorf("timestamp label decodes to %d bytes, want 4", len(data))
	}
	return int64(binary.BigEndian.Uint32(data)), nil
}

// microsComponent carries the sub-second part of the timestamp in 100ns
// units, as a plain decimal label.
type microsComponent struct{}

func (microsComponent) ID() string             { return "$tsu" }
func (microsComponent) RequiredArgs() []string { return nil }
func (microsComponent) OptionalArgs() []string { return []string{"timestamp"} }

func (microsComponent) Generate(args map[string]any) (string, error) {
	t, err := timestampArg(args)
	if err != nil {
		return "", err
	}
	return strconv.Itoa(t.Nanosecond() / 100), nil
}

func (microsComponent) Parse(label string) (any, error) {
	return strconv.ParseInt(label, 10, 64)
}

// uniqueComponent emits a fresh lowercase ULID: sortable, unique across
// concurrent generators, valid as a DNS label.
type uniqueComponent struct{}

func (uniqueComponent) ID() string             { return "$uniq" }
func (uniqueComponent) RequiredArgs() []string { return nil }
func (uniqueComponent) OptionalArgs() []string { return nil }

func (uniqueComponent) Generate(map[string]any) (string, error) {
	id, err := ulid.New(ulid.Timestamp(time.Now()), crand.Reader)
	if err != nil {
		return "", fmt.Errorf("failed to generate ulid: %s", err)
	}
	return strings.ToLower(id.String()), nil
}

func (uniqueComponent) Parse(label string) (any, error) {
	id, err := ulid.Parse(strings.ToUpper(label))
	if err != nil {
		return nil, fmt.Errorf("failed to parse ulid label: %s", err)
	}
	return strings.ToLower(id.String()), nil
}

// uuidComponent emits a random UUID as 32 hex chars, hyphens stripped to
// keep the label compact.
type uuidComponent struct{}

func (uuidComponent) ID() string             { return "$uuid" }
func (uuidComponent) RequiredArgs() []string { return nil }
func (uuidComponent) OptionalArgs() []string { return nil }

func (uuidComponent) Generate(map[string]any) (string, error) {
	return strings.ReplaceAll(uuid.NewString(), "-", ""), nil
}

func (uuidComponent) Parse(label string) (any, error) {
	id, err := uuid.Parse(label)
	if err != nil {
		return nil, fmt.Errorf("failed to parse uuid label: %s", err)
	}
	return id.String(), nil
}

// randomComponent emits a random label over its alphabet; the optional
// "length" argument defaults to 8.
type randomComponent struct {
	id       string
	alphabet string
}

func (r randomComponent) ID() string             { return r.id }
func (r randomComponent) RequiredArgs() []string { return nil }
func (r randomComponent) OptionalArgs() []string { return []string{"length"} }

func (r randomComponent) Parse(label string) (any, error) { return label, nil }

func (r randomComponent) Generate(args map[string]any) (string, error) {
	length, err := lengthArg(args)
	if err != nil {
		return "", err
	}
	label := make([]byte, length)
	for i := range label {
		label[i] = r.alphabet[rand.Intn(len(r.alphabet))]
	}
	return string(label), nil
}

// base32Component shuffles the base32 encoding of the timestamp in 10us
// units: a hard-to-predict label that still differs every generation.
type base32Component struct{}

func (base32Component) ID() string             { return "$randb32" }
func (base32Component) RequiredArgs() []string { return nil }
func (base32Component) OptionalArgs() []string { return []string{"timestamp"} }

func (base32Component) Parse(label string) (any, error) { return label, nil }

func (base32Component) Generate(args map[string]any) (string, error) {
	t, err := timestampArg(args)
	if err != nil {
		return "", err
	}
	var buf [8]byte
	binary.BigEndian.PutUint64(buf[:], uint64(t.UnixNano()/10000))
	label := []byte(b32Label(buf[:]))
	rand.Shuffle(len(label), func(i, j int) {
		label[i], label[j] = label[j], label[i]
	})
	return string(label), nil
}
