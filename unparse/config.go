package unparse

import (
	"github.com/npillmayer/otfea/ot"
	"github.com/npillmayer/schuko"
)

// Configuration keys read by ConfigFrom.
const (
	KeyInlineLimit        = "unparse.inline-limit"        // max. statements of a lookup inlined more than once
	KeyClassShareMin      = "unparse.class-share-min"     // min. size of a glyph set defined as a named class
	KeyLookups            = "unparse.lookups"             // decode lookups; if false, only features are listed
	KeyLanguageSystems    = "unparse.languagesystems"     // emit languagesystem statements
	KeyClassesFirst       = "unparse.classes-first"       // emit glyph class definitions before lookups
	KeyExtensionSubtables = "unparse.extension-subtables" // decode all subtables of extension lookups
)

// Config holds the parameters of a decompilation.
type Config struct {
	InlineLimit     int  // lookups with more statements are shared when used more than once
	ClassShareMin   int  // glyph sets with at least this many members become named classes
	Lookups         bool // decode lookups
	LanguageSystems bool // emit languagesystem statements
	ClassesFirst    bool // place the glyph-classes block before shared lookups
	// ExtensionSubtables decodes every subtable of an extension lookup which
	// wraps the same lookup type as the first one. By default only the first
	// subtable is decoded.
	ExtensionSubtables bool
}

// DefaultConfig returns the default parameters.
func DefaultConfig() Config {
	return Config{
		InlineLimit:     3,
		ClassShareMin:   10,
		Lookups:         true,
		LanguageSystems: true,
	}
}

// ConfigFrom reads parameters from a schuko configuration. Keys not set in
// conf keep their default values.
func ConfigFrom(conf schuko.Configuration) Config {
	c := DefaultConfig()
	if conf == nil {
		return c
	}
	if conf.IsSet(KeyInlineLimit) {
		c.InlineLimit = conf.GetInt(KeyInlineLimit)
	}
	if conf.IsSet(KeyClassShareMin) {
		if n := conf.GetInt(KeyClassShareMin); n > 1 {
			c.ClassShareMin = n
		} else {
			tracer().Errorf("ignoring %s=%d, must be at least 2", KeyClassShareMin, n)
		}
	}
	if conf.IsSet(KeyLookups) {
		c.Lookups = conf.GetBool(KeyLookups)
	}
	if conf.IsSet(KeyLanguageSystems) {
		c.LanguageSystems = conf.GetBool(KeyLanguageSystems)
	}
	if conf.IsSet(KeyClassesFirst) {
		c.ClassesFirst = conf.GetBool(KeyClassesFirst)
	}
	if conf.IsSet(KeyExtensionSubtables) {
		c.ExtensionSubtables = conf.GetBool(KeyExtensionSubtables)
	}
	return c
}

// Option configures a decompilation.
type Option func(*unparser)

// WithGlyphNamer sets the source of glyph names. Without a namer, glyphs are
// named synthetically ("glyph00042").
func WithGlyphNamer(namer ot.GlyphNamer) Option {
	return func(u *unparser) {
		if namer != nil {
			u.namer = namer
		}
	}
}

// WithConfig sets decompilation parameters.
func WithConfig(c Config) Option {
	return func(u *unparser) {
		u.config = c
	}
}

// WithConfiguration reads decompilation parameters from a schuko configuration.
func WithConfiguration(conf schuko.Configuration) Option {
	return WithConfig(ConfigFrom(conf))
}
