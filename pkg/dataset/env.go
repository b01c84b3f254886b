package dataset

import (
	"time"

	"golang.org/x/text/cases"
	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// stageEnv carries per-run settings shared by the pipeline stages.
// A collator is not safe for concurrent use, so every run owns one.
type stageEnv struct {
	locale   language.Tag
	location *time.Location
	coll     *collate.Collator
}

func newStageEnv(locale language.Tag, location *time.Location) *stageEnv {
	if locale == language.Und {
		locale = language.English
	}
	if location == nil {
		location = time.Local
	}
	return &stageEnv{locale: locale, location: location}
}

// envFor builds an environment from options, for stages called directly.
func envFor(opts Options) *stageEnv {
	return newStageEnv(opts.Locale, opts.Location)
}

func (e *stageEnv) collator() *collate.Collator {
	if e.coll == nil {
		e.coll = collate.New(e.locale, collate.Numeric)
	}
	return e.coll
}

func (e *stageEnv) upper(s string) string {
	return cases.Upper(e.locale).String(s)
}
