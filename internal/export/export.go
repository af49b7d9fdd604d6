package export

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/gosimple/slug"
)

// Exporter renders a read-only report and stores it under key. It returns
// where the report ended up.
type Exporter interface {
	Export(ctx context.Context, key string, report interface{}) (string, error)
}

func seasonDir(tournamentName string, year int) string {
	return fmt.Sprintf("%s-%d", slug.Make(tournamentName), year)
}

// RoundReportKey is the object key of a round summary.
func RoundReportKey(tournamentName string, year, roundNumber int) string {
	return fmt.Sprintf("%s/round-%02d.json", seasonDir(tournamentName, year), roundNumber)
}

// TournamentReportKey is the object key of a tournament summary.
func TournamentReportKey(tournamentName string, year int) string {
	return fmt.Sprintf("%s/tournament.json", seasonDir(tournamentName, year))
}

func encode(report interface{}) ([]byte, error) {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode report: %w", err)
	}
	return data, nil
}
