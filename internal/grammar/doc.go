// Package grammar holds the BFM recognizers: directive blocks in three
// dialects, footnote references and definitions, mentions, hashtags, task
// markers and task modifiers.
//
// Every recognizer is a scan.Construct or a small function built on one, so
// each grammar can be exercised on a plain byte slice. Parse* helpers run a
// construct and compile its tokens into a typed value; a false result is an
// ordinary non-match and the caller falls back to the next grammar or to
// plain text.
package grammar

// Token kinds emitted by the recognizers.
const (
	TokDirectiveName   = "directiveName"
	TokDirectiveParams = "directiveParams"
	TokParam           = "param"
	TokParamKey        = "paramKey"
	TokParamValue      = "paramValue"
	TokParamQuoted     = "paramQuoted"
	TokEmbedURL        = "embedURL"
	TokCloseFence      = "closeFence"
	TokFootnoteLabel   = "footnoteLabel"
	TokFootnoteContent = "footnoteContent"
	TokIdentifier      = "identifier"
	TokPlatform        = "platform"
	TokTaskValue       = "taskValue"
	TokModifierKey     = "modifierKey"
	TokModifierValue   = "modifierValue"
)
