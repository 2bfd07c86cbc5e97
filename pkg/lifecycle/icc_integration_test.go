package lifecycle

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cdutil/gamma-tool/pkg/calibration"
	"github.com/cdutil/gamma-tool/pkg/colord"
	"github.com/cdutil/gamma-tool/pkg/icc"
)

// baseProfileBytes builds the smallest profile pkg/icc will load: a header
// with the acsp signature and an empty tag table.
func baseProfileBytes() []byte {
	data := make([]byte, 132)
	binary.BigEndian.PutUint32(data[0:4], uint32(len(data)))
	copy(data[36:40], "acsp")
	return data
}

func TestApplyWithICCCodec(t *testing.T) {
	dir := t.TempDir()
	basePath := filepath.Join(dir, "base.icc")
	require.NoError(t, os.WriteFile(basePath, baseProfileBytes(), 0o644))

	client := newFakeClient()
	device := displayDevice("dev", &fakeProfile{id: "base", filename: basePath})
	client.devices = []colord.Device{device}

	out := &bytes.Buffer{}
	m := &Manager{
		Client:           client,
		Codec:            ICCCodec,
		ProfileDir:       t.TempDir(),
		DiscoveryTimeout: 500 * time.Millisecond,
		PollInterval:     time.Millisecond,
		Out:              out,
		NewToken:         func() string { return "token" },
	}
	client.watch = m.ProfileDir

	req := calibration.Request{Gamma: [3]float64{0.9, 1, 1.1}, Temperature: 5500}
	require.NoError(t, m.Run(ModeApply, req, AllDevices))

	path := filepath.Join(m.ProfileDir, "gamma-tool-g090100110t5500-token.icc")
	data, err := os.ReadFile(path)
	require.NoError(t, err)

	written, err := icc.Load(data)
	require.NoError(t, err)
	assert.Equal(t, "gamma-tool: g=0.90:1.00:1.10 t=5500", written.Description())
	assert.Equal(t, "token", written.Metadata()["uuid"])
	assert.Len(t, written.VCGT(), calibration.NumSamples)
}
