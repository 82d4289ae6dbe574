package yuzu

import "errors"

// ErrNoTransport is returned by NewClient when neither a URL nor an
// explicit Transport was configured. NewServer has no equivalent failure
// mode: ListenAddr always falls back to a sane default, so a Server is
// never left without a carrier.
var ErrNoTransport = errors.New("yuzu: no transport configured")
