/*
Package config holds the settings of a rendering engine.

Settings are read with viper from a configuration file (YAML, TOML or JSON)
and from environment variables prefixed with PAGEBOX_, e.g.
PAGEBOX_PAGE_SIZE=letter. Lengths use CSS syntax.

___________________________________________________________________________

License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © 2017–2022 Norbert Pillmayer <norbert@pillmayer.com>

*/
package config

import (
	"github.com/npillmayer/schuko/tracing"
)

// tracer traces with key 'pagebox.config'.
func tracer() tracing.Trace {
	return tracing.Select("pagebox.config")
}
