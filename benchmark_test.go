package antsi

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strconv"
	"strings"
	"testing"
)

func BenchmarkColorize(b *testing.B) {
	src := string(mustReadSample(b, "testdata/nested.antsi"))
	b.ReportAllocs()
	b.SetBytes(int64(len(src)))
	for b.Loop() {
		if _, err := Colorize(src); err != nil {
			b.Fatalf("colorize: %v", err)
		}
	}
}

func BenchmarkColorizePlainText(b *testing.B) {
	src := strings.Repeat("no markup on this line at all\n", 64)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = Colorize(src)
	}
}

func BenchmarkColorizeDeep(b *testing.B) {
	for _, depth := range []int{8, 32, 128} {
		src := strings.Repeat("[fg:red;deco:bold](x", depth) + strings.Repeat(")", depth)
		b.Run("d"+strconv.Itoa(depth), func(b *testing.B) {
			b.ReportAllocs()
			for b.Loop() {
				if _, err := Colorize(src); err != nil {
					b.Fatalf("colorize: %v", err)
				}
			}
		})
	}
}

func BenchmarkParseErrors(b *testing.B) {
	src := strings.Repeat("a ( b [fg:nope](c) \\q ", 32)
	b.ReportAllocs()
	for b.Loop() {
		_, _ = Parse(src)
	}
}

func BenchmarkRenderWidths(b *testing.B) {
	samples := map[string][]byte{
		"basic":   mustReadSample(b, "testdata/basic.antsi"),
		"palette": mustReadSample(b, "testdata/palette.antsi"),
	}
	for name, data := range samples {
		b.Run(name, func(b *testing.B) {
			for _, width := range []int{0, 40, 80} {
				b.Run(intToWidthLabel(width), func(b *testing.B) {
					b.ReportAllocs()
					reader := bytes.NewReader(data)
					for b.Loop() {
						reader.Reset(data)
						_ = Render(RenderRequest{
							Reader: reader,
							Writer: io.Discard,
							Width:  width,
						})
					}
				})
			}
		})
	}
}

func BenchmarkHTTPRender(b *testing.B) {
	data := mustReadSample(b, "testdata/basic.antsi")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}))
	defer server.Close()

	b.ReportAllocs()
	for b.Loop() {
		if err := HTTPRender(context.Background(), HTTPRenderRequest{
			URL:    server.URL,
			Writer: io.Discard,
			Width:  80,
		}); err != nil {
			b.Fatalf("stream http: %v", err)
		}
	}
}

func mustReadSample(b *testing.B, path string) []byte {
	b.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		b.Fatalf("read %s: %v", path, err)
	}
	return data
}

func intToWidthLabel(width int) string {
	return "w" + strconv.Itoa(width)
}
