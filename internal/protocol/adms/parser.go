// Package adms implements the ESSL/ZKTeco push protocol ("ADMS" style):
// the plain-text attendance log upload, a generic JSON push fallback for
// other terminal brands, and the handshake configuration blob.
package adms

import (
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/spec-kit/gym-attendance/internal/domain"
)

// TableAttLog is the table query parameter value for attendance uploads.
const TableAttLog = "ATTLOG"

// ErrNoData signals a push that carried no device identifier or no events.
var ErrNoData = errors.New("adms: no usable data in push")

// timestampLayouts are tried in order when parsing a scan timestamp. The
// vendor format comes first; RFC3339 covers JSON pushes from scripts.
var timestampLayouts = []string{
	"2006-01-02 15:04:05",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// Push is a normalized device push: who sent it and what was scanned.
type Push struct {
	DeviceKey string
	Events    []domain.RawScan
	Skipped   int // records dropped during parsing (bad timestamp etc.)
}

// jsonPush is the generic JSON fallback body.
type jsonPush struct {
	DeviceKey string `json:"deviceKey"`
	UserID    string `json:"userId"`
	Timestamp string `json:"timestamp"`
}

// ParsePush normalizes an inbound push. The text-log shape wins when the
// SN and table query parameters identify an ATTLOG upload; otherwise the
// body is tried as generic JSON. ErrNoData is returned when neither shape
// yields a device key and at least one event.
func ParsePush(serial, table string, body []byte, now time.Time) (*Push, error) {
	if serial != "" && strings.EqualFold(table, TableAttLog) {
		push := parseTextLog(serial, body)
		if len(push.Events) == 0 {
			return nil, ErrNoData
		}
		return push, nil
	}

	var jp jsonPush
	if err := json.Unmarshal(body, &jp); err != nil || jp.DeviceKey == "" {
		return nil, ErrNoData
	}

	scanTime := now
	if jp.Timestamp != "" {
		if parsed, ok := parseTimestamp(jp.Timestamp); ok {
			scanTime = parsed
		}
	}
	return &Push{
		DeviceKey: jp.DeviceKey,
		Events:    []domain.RawScan{{UserCode: jp.UserID, ScanTime: scanTime}},
	}, nil
}

// parseTextLog splits the vendor upload into scan events. Records are
// newline separated; fields are tab separated with field 0 the device-local
// user code and field 1 the timestamp. Trailing fields (state, verify mode)
// are not interpreted. Blank lines and records with unparseable timestamps
// are skipped.
func parseTextLog(serial string, body []byte) *Push {
	push := &Push{DeviceKey: serial}

	for _, line := range strings.Split(string(body), "\n") {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) < 2 {
			push.Skipped++
			continue
		}
		code := strings.TrimSpace(fields[0])
		ts, ok := parseTimestamp(strings.TrimSpace(fields[1]))
		if code == "" || !ok {
			push.Skipped++
			continue
		}
		push.Events = append(push.Events, domain.RawScan{UserCode: code, ScanTime: ts})
	}
	return push
}

func parseTimestamp(raw string) (time.Time, bool) {
	for _, layout := range timestampLayouts {
		if ts, err := time.Parse(layout, raw); err == nil {
			return ts, true
		}
	}
	return time.Time{}, false
}
