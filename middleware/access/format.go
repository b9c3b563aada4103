// utilitário pequeno para formatação de valores numéricos em headers.

package access

import (
	"strconv"
	"time"
)

func formatInt(v int) string { return strconv.Itoa(v) }

// formatSeconds arredonda para baixo, com mínimo de 1s (Retry-After: 0 não ajuda ninguém).
func formatSeconds(d time.Duration) string {
	s := int(d.Seconds())
	if s < 1 {
		s = 1
	}
	return formatInt(s)
}
