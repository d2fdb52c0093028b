package conv

const hexd = "0123456789ABCDEF"

// AppendHex appends src as uppercase hex pairs separated by sep (0 for
// none) and returns the extended slice.
func AppendHex(dst, src []byte, sep byte) []byte {
	for i, b := range src {
		if i > 0 && sep != 0 {
			dst = append(dst, sep)
		}
		dst = append(dst, hexd[b>>4], hexd[b&0xF])
	}
	return dst
}
