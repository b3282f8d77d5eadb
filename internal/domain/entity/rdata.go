package entity

import (
	"fmt"
	"strings"
)

// RData is the type-specific payload of a record. Each variant carries
// its own canonical presentation; two payloads are equal exactly when
// their String() forms match.
type RData interface {
	String() string
}

type ARData struct {
	Addr string // canonical dotted quad
}

func (d ARData) String() string { return d.Addr }

type AAAARData struct {
	Addr string // RFC 5952 canonical form
}

func (d AAAARData) String() string { return d.Addr }

type CNAMERData struct {
	Target string // canonical FQDN
}

func (d CNAMERData) String() string { return d.Target }

type NSRData struct {
	Target string
}

func (d NSRData) String() string { return d.Target }

type PTRRData struct {
	Target string
}

func (d PTRRData) String() string { return d.Target }

type MXRData struct {
	Preference uint16
	Exchange   string
}

func (d MXRData) String() string {
	return fmt.Sprintf("%d %s", d.Preference, d.Exchange)
}

type TXTRData struct {
	Text string // unquoted
}

func (d TXTRData) String() string {
	escaped := strings.ReplaceAll(d.Text, `\`, `\\`)
	escaped = strings.ReplaceAll(escaped, `"`, `\"`)
	return `"` + escaped + `"`
}

type SRVRData struct {
	Priority uint16
	Weight   uint16
	Port     uint16
	Target   string
}

func (d SRVRData) String() string {
	return fmt.Sprintf("%d %d %d %s", d.Priority, d.Weight, d.Port, d.Target)
}

type CAARData struct {
	Flag  uint8
	Tag   string
	Value string
}

func (d CAARData) String() string {
	return fmt.Sprintf("%d %s %q", d.Flag, d.Tag, d.Value)
}

// SOARData holds the start-of-authority payload. The serial is
// server-managed and excluded from reconciliation entirely; it is kept
// here so callers can read the live serial.
type SOARData struct {
	PrimaryNS  string
	AdminEmail string
	Serial     uint32
	Refresh    uint32
	Retry      uint32
	Expire     uint32
	Minimum    uint32
}

func (d SOARData) String() string {
	return fmt.Sprintf("%s %s %d %d %d %d %d",
		d.PrimaryNS, d.AdminEmail, d.Serial, d.Refresh, d.Retry, d.Expire, d.Minimum)
}
