package graphcore

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestComputeRead_DeclaresSampledUsage(t *testing.T) {
	in := ComputeRead("in", 0)
	require.Equal(t, ImageUsageSampled, in.ImageUsage)
	require.Equal(t, LayoutShaderReadOnlyOptimal, in.RequiredLayout)
}

func TestTransferSrc_DeclaresTransferSrcUsage(t *testing.T) {
	in := TransferSrc("in", 0)
	require.Equal(t, ImageUsageTransferSrc, in.ImageUsage)
}

func TestComputeReadBuffer_DeclaresStorageUsage(t *testing.T) {
	in := ComputeReadBuffer("in", 0)
	require.Equal(t, BufferUsageStorage, in.BufferUsage)
}

func TestTransferSrcBuffer_DeclaresTransferSrcUsage(t *testing.T) {
	in := TransferSrcBuffer("in", 0)
	require.Equal(t, BufferUsageTransferSrc, in.BufferUsage)
}

func TestCompatible_SameKindIsCompatible(t *testing.T) {
	out := ComputeWrite("out", ImageCreateInfo{}, false)
	in := ComputeRead("in", 0)
	require.True(t, Compatible(out, in))
}

func TestCompatible_MismatchedKindIsIncompatible(t *testing.T) {
	out := ComputeWriteBuffer("out", BufferCreateInfo{}, false)
	in := ComputeRead("in", 0)
	require.False(t, Compatible(out, in))
}
