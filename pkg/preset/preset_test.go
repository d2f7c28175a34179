package preset

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestEncodeRequiresEngineAndVersion(t *testing.T) {
	_, err := Encode(Document{Parameters: map[string]float32{}})
	require.ErrorIs(t, err, ErrMalformed)
}

func TestEncodeDecodeRoundTrip(t *testing.T) {
	doc := Document{
		Engine:     "va",
		Version:    "v1.0",
		Parameters: map[string]float32{"masterVolume": 0.75, "osc1Shape": 0.0},
		ModMatrix:  []ModSlot{{Source: 1, Destination: 2, Amount: 0.5, Bipolar: true, Curve: 0}},
		Macros:     []Macro{{Name: "Macro 1", Value: 0.3}},
	}
	data, err := Encode(doc)
	require.NoError(t, err)

	got, err := Decode(data, "va", "v1.0")
	require.NoError(t, err)
	require.Equal(t, doc.Parameters, got.Parameters)
	require.Equal(t, doc.ModMatrix, got.ModMatrix)
	require.Len(t, got.Macros, 1)
	require.Equal(t, "Macro 1", got.Macros[0].Name)
}

func TestDecodeRejectsMalformedJSON(t *testing.T) {
	_, err := Decode([]byte("{not json"), "va", "v1.0")
	require.ErrorIs(t, err, ErrMalformed)
}

func TestDecodeRejectsEngineMismatch(t *testing.T) {
	data, err := Encode(Document{Engine: "fm", Version: "v1.0", Parameters: map[string]float32{}})
	require.NoError(t, err)
	_, err = Decode(data, "va", "v1.0")
	require.ErrorIs(t, err, ErrEngineMismatch)
}

func TestDecodeRejectsVersionMismatch(t *testing.T) {
	data, err := Encode(Document{Engine: "va", Version: "v2.0", Parameters: map[string]float32{}})
	require.NoError(t, err)
	_, err = Decode(data, "va", "v1.0")
	require.ErrorIs(t, err, ErrVersionMismatch)
}

func TestDecodeRejectsMissingParameters(t *testing.T) {
	_, err := Decode([]byte(`{"engine":"va","version":"v1.0"}`), "va", "v1.0")
	require.ErrorIs(t, err, ErrMalformed)
}
