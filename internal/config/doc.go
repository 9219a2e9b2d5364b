// Package config loads everything slicectl needs besides CLI flags:
// resource spec documents ([LoadSpec]), polling and retry knobs from the
// environment ([LoadTimeouts]), and the built-in single node slice used when
// no spec file is given ([DefaultSpec]).
package config
