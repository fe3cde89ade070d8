package hostexec

import "github.com/rs/zerolog/log"

// BestEffort runs op and discards its error. It is used for cleanup whose
// failure leaves an acceptable state, like killing a session that already
// exited or removing a directory that is gone.
func BestEffort(what string, op func() error) {
	if err := op(); err != nil {
		log.Debug().Err(err).Str("op", what).Msg("best-effort operation failed")
	}
}
