package common

import (
	"github.com/google/uuid"
)

// NewAnalysisID generates a unique analysis ID with the "srl_" prefix
// Format: srl_<uuid>
func NewAnalysisID() string {
	return "srl_" + uuid.New().String()
}
