// Copyright (c) 2020-2023 Ozan Hacıbekiroğlu.
// Use of this source code is governed by a MIT License
// that can be found in the LICENSE file.

package parser

import (
	"fmt"
	"io"
	"strconv"

	"github.com/pkg/errors"
)

type UpDownLines struct {
	Up, Down int
}

// ErrorHumanizing writes diagnostics with the source lines around them.
type ErrorHumanizing struct {
	Current UpDownLines
}

func (h *ErrorHumanizing) Humanize(out io.Writer, err error) {
	var (
		up, down = h.Current.Up, h.Current.Down
	)

	if up == 0 {
		up = 3
	}

	if down == 0 {
		down = 3
	}

	format := "%+" + strconv.Itoa(up) + "." + strconv.Itoa(down) + "v\n"
	switch t := errors.Cause(err).(type) {
	case ErrorList:
		for i, d := range t {
			if i > 0 {
				out.Write([]byte("\n"))
			}
			fmt.Fprintf(out, format, d)
		}
	case *Diagnostic:
		fmt.Fprintf(out, format, t)
	default:
		fmt.Fprintf(out, "ERROR: %v\n", err)
	}
}
