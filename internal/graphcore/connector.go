package graphcore

// Factory constructors preset the stage/access/usage triple for the
// connector variants in common use: compute_read / compute_write /
// transfer_src / transfer_write. Node authors may still build an
// InputDescriptor/OutputDescriptor by hand for anything these presets
// don't cover.

// ComputeRead presets an input read by a compute shader as a sampled image.
func ComputeRead(name string, delay int) InputDescriptor {
	return InputDescriptor{
		Name:           name,
		Kind:           KindImage,
		Stages:         StageComputeShader,
		Access:         AccessShaderRead,
		RequiredLayout: LayoutShaderReadOnlyOptimal,
		ImageUsage:     ImageUsageSampled,
		Delay:          delay,
	}
}

// ComputeWrite presets an output written by a compute shader as a storage
// image.
func ComputeWrite(name string, ci ImageCreateInfo, persistent bool) OutputDescriptor {
	ci.Usage |= ImageUsageStorage
	return OutputDescriptor{
		Name:           name,
		Kind:           KindImage,
		Image:          ci,
		Persistent:     persistent,
		ProducerStages: StageComputeShader,
		ProducerAccess: AccessShaderWrite,
	}
}

// TransferSrc presets an input read as the source of a copy/blit.
func TransferSrc(name string, delay int) InputDescriptor {
	return InputDescriptor{
		Name:           name,
		Kind:           KindImage,
		Stages:         StageTransfer,
		Access:         AccessTransferRead,
		RequiredLayout: LayoutTransferSrcOptimal,
		ImageUsage:     ImageUsageTransferSrc,
		Delay:          delay,
	}
}

// TransferWrite presets an output written as the destination of a
// copy/blit.
func TransferWrite(name string, ci ImageCreateInfo, persistent bool) OutputDescriptor {
	ci.Usage |= ImageUsageTransferDst
	return OutputDescriptor{
		Name:           name,
		Kind:           KindImage,
		Image:          ci,
		Persistent:     persistent,
		ProducerStages: StageTransfer,
		ProducerAccess: AccessTransferWrite,
	}
}

// ComputeReadBuffer presets a buffer input read by a compute shader.
func ComputeReadBuffer(name string, delay int) InputDescriptor {
	return InputDescriptor{
		Name:        name,
		Kind:        KindBuffer,
		Stages:      StageComputeShader,
		Access:      AccessShaderRead,
		BufferUsage: BufferUsageStorage,
		Delay:       delay,
	}
}

// ComputeWriteBuffer presets a buffer output written by a compute shader.
func ComputeWriteBuffer(name string, ci BufferCreateInfo, persistent bool) OutputDescriptor {
	ci.Usage |= BufferUsageStorage
	return OutputDescriptor{
		Name:           name,
		Kind:           KindBuffer,
		Buffer:         ci,
		Persistent:     persistent,
		ProducerStages: StageComputeShader,
		ProducerAccess: AccessShaderWrite,
	}
}

// TransferSrcBuffer presets a buffer input read as the source of a copy.
func TransferSrcBuffer(name string, delay int) InputDescriptor {
	return InputDescriptor{
		Name:        name,
		Kind:        KindBuffer,
		Stages:      StageTransfer,
		Access:      AccessTransferRead,
		BufferUsage: BufferUsageTransferSrc,
		Delay:       delay,
	}
}

// TransferWriteBuffer presets a buffer output written as the destination of
// a copy.
func TransferWriteBuffer(name string, ci BufferCreateInfo, persistent bool) OutputDescriptor {
	ci.Usage |= BufferUsageTransferDst
	return OutputDescriptor{
		Name:           name,
		Kind:           KindBuffer,
		Buffer:         ci,
		Persistent:     persistent,
		ProducerStages: StageTransfer,
		ProducerAccess: AccessTransferWrite,
	}
}

// Compatible reports whether an output can feed an input: both sides must
// agree on connector kind. Mismatches fail at build time with a
// connector-error.
func Compatible(out OutputDescriptor, in InputDescriptor) bool {
	return out.Kind == in.Kind
}
