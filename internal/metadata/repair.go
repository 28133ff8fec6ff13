package metadata

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
	"github.com/custodia-labs/lexrag-cli/internal/logger"
)

var (
	jsonControlChars = regexp.MustCompile("[\x00-\x08\x0b\x0c\x0e-\x1f\x7f]")
	trailingCommas   = regexp.MustCompile(`,\s*([}\]])`)
)

// RepairAndParse parses a raw metadata blob. On failure it applies one
// best-effort repair pass and retries once; if that also fails the
// metadata is treated as absent, reported through the returned error and
// never as a fatal condition for the owning document.
func RepairAndParse(blob string) (domain.MetaValue, error) {
	blob = strings.TrimSpace(blob)
	if blob == "" {
		return domain.MetaValue{}, nil
	}

	if v, err := parse(blob); err == nil {
		return v, nil
	}

	repaired := Repair(blob)
	v, err := parse(repaired)
	if err != nil {
		logger.Warn("Metadata blob unparseable after repair: %v", err)
		return domain.MetaValue{}, fmt.Errorf("%w: %v", domain.ErrMetadataUnparseable, err)
	}
	return v, nil
}

// Repair applies the basic fixes seen in pipeline output: control
// characters inside the blob, CSV-style doubled quotes, and trailing
// commas before a closing brace or bracket.
func Repair(blob string) string {
	blob = jsonControlChars.ReplaceAllString(blob, "")
	blob = strings.ReplaceAll(blob, `""`, `"`)
	blob = trailingCommas.ReplaceAllString(blob, "$1")
	return strings.TrimSpace(blob)
}

func parse(blob string) (domain.MetaValue, error) {
	var decoded any
	if err := json.Unmarshal([]byte(blob), &decoded); err != nil {
		return domain.MetaValue{}, err
	}
	// Pipeline responses sometimes arrive as a one-element array
	// wrapping the real object.
	if list, ok := decoded.([]any); ok {
		if len(list) == 0 {
			return domain.MetaValue{}, nil
		}
		decoded = list[0]
	}
	return domain.FromAny(decoded), nil
}
