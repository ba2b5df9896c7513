package timezone

import (
	"errors"
	"strings"
	"time"

	// zoneinfo embutido para imagens sem /usr/share/zoneinfo
	_ "time/tzdata"
)

const DefaultTimezone = "America/Sao_Paulo"

var errEmptyZone = errors.New("timezone: empty zone name")

func load(tz string) (*time.Location, error) {
	tz = strings.TrimSpace(tz)
	if tz == "" {
		return nil, errEmptyZone
	}
	return time.LoadLocation(tz)
}

func IsValid(tz string) bool {
	_, err := load(tz)
	return err == nil
}

// Location falls back to the clinic default for empty or unknown names.
func Location(tz string) *time.Location {
	if loc, err := load(tz); err == nil {
		return loc
	}
	if loc, err := load(DefaultTimezone); err == nil {
		return loc
	}
	return time.FixedZone("BRT", -3*60*60)
}
