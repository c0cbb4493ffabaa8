package ocr

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const sampleTSV = `level	page_num	block_num	par_num	line_num	word_num	left	top	width	height	conf	text
1	1	0	0	0	0	0	0	640	480	-1
2	1	1	0	0	0	10	10	300	40	-1
5	1	1	1	1	1	10	10	120	40	96.50	Steak
5	1	1	1	1	2	140	10	110	40	91.02	Frites
5	1	1	1	2	1	10	60	80	40	33.33	$24
5	1	1	1	2	2	100	60	60	40	88.00	` + " " + `
`

func TestParseTSV(t *testing.T) {
	fragments := parseTSV(sampleTSV)
	require.Len(t, fragments, 3)

	require.Equal(t, "Steak", fragments[0].Text)
	require.InDelta(t, 0.965, fragments[0].Confidence, 1e-9)
	require.Equal(t, "Frites", fragments[1].Text)
	require.InDelta(t, 0.9102, fragments[1].Confidence, 1e-9)
	require.Equal(t, "$24", fragments[2].Text)
	require.InDelta(t, 0.3333, fragments[2].Confidence, 1e-9)
}

func TestParseTSVMalformedRows(t *testing.T) {
	output := strings.Join([]string{
		"header",
		"too\tfew\tcolumns",
		"",
	}, "\n")
	require.Empty(t, parseTSV(output))
}

func TestRecognizeMissingImage(t *testing.T) {
	rec := NewTesseract("tesseract", "eng", zap.NewNop())
	_, err := rec.Recognize(context.Background(), "/nonexistent/menu.png")
	require.ErrorIs(t, err, ErrImageNotFound)
}

func TestJoinText(t *testing.T) {
	fragments := []Fragment{
		{Text: "Steak", Confidence: 0.96},
		{Text: "  ", Confidence: 0.9},
		{Text: "Frites", Confidence: 0.91},
	}
	require.Equal(t, "Steak\nFrites", JoinText(fragments))
	require.Equal(t, "", JoinText(nil))
}
