// 2 Oct 2026
// Package white strips white space out of byte slices. The fasta reader
// gets sequence data in lumps which may have spaces and newlines
// anywhere in them.

package white

var asciiSpace = [256]bool{
	'\t': true, '\n': true, '\v': true, '\f': true, '\r': true, ' ': true,
}

// IsWhite says if a byte is ascii white space.
func IsWhite(c byte) bool { return asciiSpace[c] }

// Remove acts on a byte slice, in place, and removes all the white
// space. The length is adjusted, the capacity and backing store are
// unchanged.
func Remove(ps *[]byte) {
	s := *ps
	n := 0
	for _, c := range s {
		if asciiSpace[c] {
			continue
		}
		s[n] = c
		n++
	}
	*ps = s[:n]
}

// RemoveByBlock does the same as Remove, but copies runs of non-white
// characters instead of single bytes. It wins when there are long
// lines and little white space.
func RemoveByBlock(ps *[]byte) {
	s := *ps
	n := 0
	for i := 0; i < len(s); {
		if asciiSpace[s[i]] {
			i++
			continue
		}
		j := i + 1
		for j < len(s) && !asciiSpace[s[j]] {
			j++
		}
		n += copy(s[n:], s[i:j])
		i = j
	}
	*ps = s[:n]
}
