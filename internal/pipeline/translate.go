// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package pipeline

import (
	"context"

	"github.com/pdiddy/paper-alert/pkg/types"
)

// TranslateFunc translates a batch of texts in one call. The result must be
// in input order; an empty string means no translation for that entry.
type TranslateFunc func(ctx context.Context, texts []string) ([]string, error)

// Translate fills AbstractTranslated for records that have an abstract,
// using a single batched call. Translation is best-effort: a nil translate
// function, a failed call, or a short result leaves the affected records
// unchanged. A result shorter than the input applies to the prefix only.
func Translate(ctx context.Context, records []types.Record, translate TranslateFunc) []types.Record {
	if translate == nil {
		return records
	}

	var texts []string
	var idxs []int
	for i, r := range records {
		if r.Abstract != "" {
			texts = append(texts, r.Abstract)
			idxs = append(idxs, i)
		}
	}
	if len(texts) == 0 {
		return records
	}

	translated, err := translate(ctx, texts)
	if err != nil {
		return records
	}

	out := make([]types.Record, len(records))
	copy(out, records)
	for i, idx := range idxs {
		if i >= len(translated) {
			break
		}
		if translated[i] != "" {
			out[idx].AbstractTranslated = translated[i]
		}
	}
	return out
}
