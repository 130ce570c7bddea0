package models

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
)

// Encode writes vertices and faces in the text model format. The output
// parses back to the same geometry.
func Encode(w io.Writer, vertices []RawVertex, faces []Face) error {
	bw := bufio.NewWriter(w)

	for _, v := range vertices {
		bw.WriteString("v")
		for _, x := range [9]float64{
			v.Position.X, v.Position.Y, v.Position.Z,
			v.Normal.X, v.Normal.Y, v.Normal.Z,
			v.Color.X, v.Color.Y, v.Color.Z,
		} {
			bw.WriteByte(' ')
			bw.WriteString(strconv.FormatFloat(x, 'g', -1, 64))
		}
		bw.WriteByte('\n')
	}

	for _, f := range faces {
		fmt.Fprintf(bw, "f %d %d %d\n", f[0], f[1], f[2])
	}

	return bw.Flush()
}

// WriteText encodes the model's source geometry with a name header.
func (m *Model) WriteText(w io.Writer) error {
	if m.Name != "" {
		if _, err := fmt.Fprintf(w, "# %s\n", m.Name); err != nil {
			return err
		}
	}
	return Encode(w, m.Raw, m.Faces)
}
