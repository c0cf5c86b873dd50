package matrix

import (
	"bufio"
	"io"
	"strconv"
)

// Fprint writes m as whitespace-separated rows, one line per row.
func Fprint[T Number](w io.Writer, m *Mat[T]) error {
	bw := bufio.NewWriter(w)
	buf := make([]byte, 0, 32)
	for i := 0; i < m.R; i++ {
		for j, v := range m.Row(i) {
			if j > 0 {
				_ = bw.WriteByte(' ')
			}
			buf = appendNumber(buf[:0], v)
			_, _ = bw.Write(buf)
		}
		_ = bw.WriteByte('\n')
	}
	return bw.Flush()
}

func appendNumber[T Number](buf []byte, v T) []byte {
	switch x := any(v).(type) {
	case float32:
		return strconv.AppendFloat(buf, float64(x), 'g', -1, 32)
	case float64:
		return strconv.AppendFloat(buf, x, 'g', -1, 64)
	}
	f := float64(v)
	if f == float64(int64(f)) {
		return strconv.AppendInt(buf, int64(v), 10)
	}
	return strconv.AppendFloat(buf, f, 'g', -1, 64)
}
