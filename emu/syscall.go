package emu

import "io"

// A32 Linux EABI syscall numbers.
const (
	SyscallExit      uint32 = 1   // exit(status)
	SyscallRead      uint32 = 3   // read(fd, buf, count)
	SyscallWrite     uint32 = 4   // write(fd, buf, count)
	SyscallExitGroup uint32 = 248 // exit_group(status)
)

// Linux error codes.
const (
	EBADF  = 9  // Bad file descriptor
	ENOSYS = 38 // Function not implemented
	EIO    = 5  // I/O error
)

// SyscallResult represents the result of a syscall execution.
type SyscallResult struct {
	// Exited is true if the syscall caused program termination.
	Exited bool

	// ExitCode is the exit status if Exited is true.
	ExitCode int64
}

// SyscallHandler is the interface for handling A32 syscalls.
type SyscallHandler interface {
	// Handle executes the syscall indicated by the register file state.
	// EABI convention:
	//   - Syscall number in R7
	//   - Arguments in R0-R5
	//   - Return value in R0
	Handle() SyscallResult
}

// DefaultSyscallHandler provides a basic syscall handler implementation.
type DefaultSyscallHandler struct {
	regFile *RegFile
	memory  *Memory
	stdin   io.Reader
	stdout  io.Writer
	stderr  io.Writer
}

// NewDefaultSyscallHandler creates a default syscall handler.
func NewDefaultSyscallHandler(regFile *RegFile, memory *Memory, stdout, stderr io.Writer) *DefaultSyscallHandler {
	return &DefaultSyscallHandler{
		regFile: regFile,
		memory:  memory,
		stdout:  stdout,
		stderr:  stderr,
	}
}

// SetStdin sets the stdin reader for the syscall handler.
func (h *DefaultSyscallHandler) SetStdin(stdin io.Reader) {
	h.stdin = stdin
}

// Handle executes the syscall indicated by the register file state.
func (h *DefaultSyscallHandler) Handle() SyscallResult {
	switch h.regFile.R[7] {
	case SyscallExit, SyscallExitGroup:
		return SyscallResult{
			Exited:   true,
			ExitCode: int64(int32(h.regFile.R[0])),
		}
	case SyscallRead:
		h.handleRead()
	case SyscallWrite:
		h.handleWrite()
	default:
		h.setError(ENOSYS)
	}

	return SyscallResult{}
}

func (h *DefaultSyscallHandler) handleRead() {
	fd := h.regFile.R[0]
	bufPtr := h.regFile.R[1]
	count := h.regFile.R[2]

	if fd != 0 {
		h.setError(EBADF)
		return
	}

	// No stdin reads as EOF
	if h.stdin == nil {
		h.regFile.R[0] = 0
		return
	}

	// A short read is legal, so one page bounds the host buffer.
	buf := make([]byte, min(count, pageSize))
	n, err := h.stdin.Read(buf)
	if err != nil && n == 0 {
		h.regFile.R[0] = 0
		return
	}

	h.memory.LoadProgram(bufPtr, buf[:n])
	h.regFile.R[0] = uint32(n)
}

func (h *DefaultSyscallHandler) handleWrite() {
	fd := h.regFile.R[0]
	bufPtr := h.regFile.R[1]
	count := h.regFile.R[2]

	var writer io.Writer
	switch fd {
	case 1:
		writer = h.stdout
	case 2:
		writer = h.stderr
	default:
		h.setError(EBADF)
		return
	}

	// At most one page is buffered at a time.
	chunk := make([]byte, min(count, pageSize))

	var total uint32
	for total < count {
		part := chunk[:min(count-total, pageSize)]
		h.memory.read(bufPtr+total, part)

		n, err := writer.Write(part)
		total += uint32(n)

		if err != nil {
			if total == 0 {
				h.setError(EIO)
				return
			}
			break
		}
	}

	h.regFile.R[0] = total
}

// setError sets R0 to -errno.
func (h *DefaultSyscallHandler) setError(errno int) {
	h.regFile.R[0] = uint32(-int32(errno))
}
