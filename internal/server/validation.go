package server

import (
	"errors"
	"fmt"
	"strings"

	"truth-be-told/internal/db"
)

const (
	minUsernameLength    = 3
	maxUsernameLength    = 32
	maxDisplayNameLength = 64
	minRoomIDLength      = 4
	maxRoomIDLength      = 12
	maxGuessedTypeLength = 16
)

func validateUsername(username string) (string, error) {
	trimmed := strings.TrimSpace(username)
	if len(trimmed) < minUsernameLength {
		return "", fmt.Errorf("username must be at least %d characters", minUsernameLength)
	}
	if len(trimmed) > maxUsernameLength {
		return "", fmt.Errorf("username must be %d characters or fewer", maxUsernameLength)
	}
	for _, r := range trimmed {
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		if r == '-' || r == '_' {
			continue
		}
		return "", errors.New("username contains unsupported characters")
	}
	return trimmed, nil
}

func validateDisplayName(name string) (string, error) {
	trimmed := normalizeText(name)
	if trimmed == "" {
		return "", errors.New("display name is required")
	}
	if len(trimmed) > maxDisplayNameLength {
		return "", fmt.Errorf("display name must be %d characters or fewer", maxDisplayNameLength)
	}
	if !isSafeText(trimmed) {
		return "", errors.New("display name contains unsupported characters")
	}
	return trimmed, nil
}

// validateRoomID checks a creator-chosen room code like "ABC123".
func validateRoomID(id string) (string, error) {
	trimmed := strings.ToUpper(strings.TrimSpace(id))
	if len(trimmed) < minRoomIDLength {
		return "", fmt.Errorf("room id must be at least %d characters", minRoomIDLength)
	}
	if len(trimmed) > maxRoomIDLength {
		return "", fmt.Errorf("room id must be %d characters or fewer", maxRoomIDLength)
	}
	for _, r := range trimmed {
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		return "", errors.New("room id contains unsupported characters")
	}
	return trimmed, nil
}

func (s *Server) validatePhrase(phrase string) (string, error) {
	trimmed := normalizeText(phrase)
	if trimmed == "" {
		return "", errors.New("phrase is required")
	}
	if len(trimmed) > s.cfg.MaxPhraseLength {
		return "", fmt.Errorf("phrase must be %d characters or fewer", s.cfg.MaxPhraseLength)
	}
	if !isSafeText(trimmed) {
		return "", errors.New("phrase contains unsupported characters")
	}
	return trimmed, nil
}

func validateActualType(actualType string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(actualType))
	if trimmed != db.SubmissionTypeTruth && trimmed != db.SubmissionTypeFabrication {
		return "", fmt.Errorf("type must be %q or %q", db.SubmissionTypeTruth, db.SubmissionTypeFabrication)
	}
	return trimmed, nil
}

// validateGuessedType only bounds the guess; a guess outside the two real
// labels is stored as given and scored incorrect.
func validateGuessedType(guessedType string) (string, error) {
	trimmed := strings.ToLower(strings.TrimSpace(guessedType))
	if trimmed == "" {
		return "", errors.New("guessed type is required")
	}
	if len(trimmed) > maxGuessedTypeLength {
		return "", fmt.Errorf("guessed type must be %d characters or fewer", maxGuessedTypeLength)
	}
	return trimmed, nil
}

func normalizeText(text string) string {
	fields := strings.Fields(strings.TrimSpace(text))
	return strings.Join(fields, " ")
}

func isSafeText(text string) bool {
	for _, r := range text {
		if r > 127 {
			return false
		}
		if r >= 'a' && r <= 'z' {
			continue
		}
		if r >= 'A' && r <= 'Z' {
			continue
		}
		if r >= '0' && r <= '9' {
			continue
		}
		switch r {
		case ' ', '-', '_', '\'', '"', '.', ',', '!', '?', ':', ';', '&', '(', ')', '/':
			continue
		default:
			return false
		}
	}
	return true
}
