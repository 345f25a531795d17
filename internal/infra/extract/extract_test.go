package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractPlainText(t *testing.T) {
	n := NewNative()
	out, err := n.Extract("notes.txt", "TXT", []byte("hello world"))
	require.NoError(t, err)
	assert.Equal(t, "hello world", out)
}

func TestExtractNotebook(t *testing.T) {
	nb := `{"cells":[
		{"cell_type":"markdown","source":["# Title"]},
		{"cell_type":"code","source":["import numpy as np\n","x = np.zeros(3)"]},
		{"cell_type":"code","source":["print(x)"]}
	]}`
	n := NewNative()
	out, err := n.Extract("model.ipynb", "IPYNB", []byte(nb))
	require.NoError(t, err)
	assert.Contains(t, out, "import numpy as np")
	assert.Contains(t, out, "# CELL SEPARATOR ")
	assert.NotContains(t, out, "# Title")
}

func TestExtractNotebookBadJSON(t *testing.T) {
	n := NewNative()
	_, err := n.Extract("model.ipynb", "IPYNB", []byte("{not json"))
	assert.Error(t, err)
}

func TestExtractBinaryFormatsFail(t *testing.T) {
	n := NewNative()
	for _, tag := range []string{"PDF", "DOCX", "XLSX"} {
		_, err := n.Extract("doc", tag, []byte{0x01})
		assert.Error(t, err, tag)
	}
}
