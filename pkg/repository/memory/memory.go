package memory

import (
	"github.com/studynotes-lab/grimoire/pkg/domain/interfaces"
)

// Repository is an alias for Memory to match the pattern
type Repository = Memory

type Memory struct {
	note    *noteRepository
	version *versionRepository
}

var _ interfaces.Repository = &Memory{}

func New() *Memory {
	return &Memory{
		note:    newNoteRepository(),
		version: newVersionRepository(),
	}
}

func (m *Memory) Note() interfaces.NoteRepository {
	return m.note
}

func (m *Memory) Version() interfaces.VersionRepository {
	return m.version
}

// Close is a no-op for the in-memory repository
func (m *Memory) Close() error {
	return nil
}
