package output

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriter_WriteLine(t *testing.T) {
	tests := []struct {
		name       string
		line       string
		wantOutput string
	}{
		{
			name:       "version string",
			line:       "1.0.5-feature-x.m.dirty",
			wantOutput: "1.0.5-feature-x.m.dirty\n",
		},
		{
			name:       "flag explanation",
			line:       "Non-release branch, Release tagged",
			wantOutput: "Non-release branch, Release tagged\n",
		},
		{
			name:       "indented report line",
			line:       " 2 uncommitted changes",
			wantOutput: " 2 uncommitted changes\n",
		},
		{
			name:       "empty line",
			line:       "",
			wantOutput: "\n",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Arrange
			var buf bytes.Buffer
			writer := NewWriterWithOutput(&buf)

			// Act
			err := writer.WriteLine(tt.line)

			// Assert
			require.NoError(t, err)
			assert.Equal(t, tt.wantOutput, buf.String())
		})
	}
}

func TestWriter_WriteLine_PreservesOrder(t *testing.T) {
	var buf bytes.Buffer
	writer := NewWriterWithOutput(&buf)

	for _, line := range []string{"1.0.2-feature-x", "Non-release branch, Release tagged"} {
		require.NoError(t, writer.WriteLine(line))
	}

	assert.Equal(t, "1.0.2-feature-x\nNon-release branch, Release tagged\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write(_ []byte) (int, error) {
	return 0, errors.New("broken pipe")
}

func TestWriter_WriteLine_Error(t *testing.T) {
	writer := NewWriterWithOutput(failingWriter{})

	err := writer.WriteLine("1.0.0-rel-1.0")

	assert.EqualError(t, err, "broken pipe")
}

func TestNewWriter_UsesStdout(t *testing.T) {
	writer := NewWriter()
	assert.NotNil(t, writer)
	assert.NotNil(t, writer.out)
}
