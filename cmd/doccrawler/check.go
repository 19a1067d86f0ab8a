package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/aleister1102/doccrawler/internal/urlhandler"
)

// runCheck validates every non-blank, non-comment line of r and writes one
// tab-separated line per URL to w:
//
//	VALID    <type>  <normalized>
//	INVALID  <kind>  <raw>  <reason>
//
// It returns the number of rejected URLs.
func runCheck(r io.Reader, w io.Writer, engine *urlhandler.Engine, base string) (int, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	var baseInfo *urlhandler.URLInfo
	if base != "" {
		baseInfo = engine.Create(base, "")
		if !baseInfo.IsValid() {
			return 0, fmt.Errorf("invalid base URL %q: %w", base, baseInfo.Err())
		}
	}

	rejected := 0
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		info := engine.CreateWithBase(line, baseInfo)
		if info.IsValid() {
			fmt.Fprintf(w, "VALID\t%s\t%s\n", info.Type(), info.NormalizedURL())
			continue
		}

		rejected++
		fmt.Fprintf(w, "INVALID\t%s\t%s\t%s\n", info.ErrorKind(), line, reason(info.Err()))
	}
	if err := scanner.Err(); err != nil {
		return rejected, fmt.Errorf("reading check input: %w", err)
	}
	return rejected, nil
}

func reason(err error) string {
	var ue *urlhandler.URLError
	if errors.As(err, &ue) && ue.Reason != "" {
		return ue.Reason
	}
	return err.Error()
}
