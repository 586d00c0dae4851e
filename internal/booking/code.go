package booking

import (
	"crypto/rand"
	"strconv"
	"strings"
	"time"
)

const codeAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewBookingCode generates a customer-facing booking code: "BK", the
// current unix milliseconds in base36 and a 3-character random suffix,
// all upper-case.  The timestamp keeps codes roughly sortable; the
// suffix separates bookings created in the same millisecond.  The
// unique index on booking_code catches the rare remaining collision.
func NewBookingCode() string {
	var b strings.Builder
	b.WriteString("BK")
	b.WriteString(strings.ToUpper(strconv.FormatInt(time.Now().UnixMilli(), 36)))
	buf := make([]byte, 3)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand failing means the platform is broken; fall back
		// to the clock so booking creation still proceeds.
		n := time.Now().UnixNano()
		buf[0], buf[1], buf[2] = byte(n), byte(n>>8), byte(n>>16)
	}
	for _, c := range buf {
		b.WriteByte(codeAlphabet[int(c)%len(codeAlphabet)])
	}
	return b.String()
}
