package resolver

import (
	"bytes"
	"fmt"
	"net"
	"strconv"
)

// IPToARPA returns the "arpa." domain name used to look up the given IP
// address via a PTR query. It returns ok = false if ip is not a valid IPv4
// or IPv6 address.
func IPToARPA(ip string) (name string, ok bool) {
	parsed := net.ParseIP(ip)
	if parsed == nil {
		return ip, false
	}

	if v4 := parsed.To4(); v4 != nil {
		return fmt.Sprintf(
			"%d.%d.%d.%d.in-addr.arpa.",
			v4[3],
			v4[2],
			v4[1],
			v4[0],
		), true
	}

	v6 := parsed.To16()

	buf := &bytes.Buffer{}
	for idx := 15; idx >= 0; idx-- {
		octet := int64(v6[idx])
		high := octet >> 4
		low := octet & 0xf

		buf.WriteString(strconv.FormatInt(low, 16))
		buf.WriteRune('.')
		buf.WriteString(strconv.FormatInt(high, 16))
		buf.WriteRune('.')
	}
	buf.WriteString("ip6.arpa.")

	return buf.String(), true
}
