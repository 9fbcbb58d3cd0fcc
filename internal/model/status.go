// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package model

// Status labels shown next to the assistant indicator.
const (
	LabelAvailable = "Available..."
	LabelThinking  = "Thinking..."
	LabelListening = "Listening..."
	LabelSpeaking  = "Speaking..."
)

// Indicator is the colour class of the status dot.
type Indicator int

const (
	IndicatorIdle Indicator = iota
	IndicatorListening
	IndicatorThinking
	IndicatorAnswering
)

// String returns the indicator name.
func (i Indicator) String() string {
	switch i {
	case IndicatorListening:
		return "listening"
	case IndicatorThinking:
		return "thinking"
	case IndicatorAnswering:
		return "answering"
	default:
		return "idle"
	}
}

// AssistantStatus is the transient state of the assistant indicator. It is
// never persisted. Transitions return a new value and never touch timers.
//
// The zero value is not ready for display; use NewAssistantStatus.
type AssistantStatus struct {
	Status      string
	IsListening bool
	IsThinking  bool
	IsAnswering bool
	IsSpeaking  bool
}

// NewAssistantStatus returns the idle status.
func NewAssistantStatus() AssistantStatus {
	return AssistantStatus{Status: LabelAvailable}
}

// Label returns the status text, defaulting to "Available...".
func (s AssistantStatus) Label() string {
	if s.Status == "" {
		return LabelAvailable
	}
	return s.Status
}

// Indicator returns the dot state. Listening wins over thinking, which wins
// over answering.
func (s AssistantStatus) Indicator() Indicator {
	switch {
	case s.IsListening:
		return IndicatorListening
	case s.IsThinking:
		return IndicatorThinking
	case s.IsAnswering:
		return IndicatorAnswering
	default:
		return IndicatorIdle
	}
}

// IsIdle reports whether no request is in flight.
func (s AssistantStatus) IsIdle() bool {
	return !s.IsThinking
}

// BeginThinking marks a request as in flight.
func (s AssistantStatus) BeginThinking() AssistantStatus {
	s.IsThinking = true
	s.Status = LabelThinking
	return s
}

// EndThinking returns to idle after a response or an error. The label falls
// back to whichever toggle is still on.
func (s AssistantStatus) EndThinking() AssistantStatus {
	s.IsThinking = false
	s.IsAnswering = false
	s.Status = s.restingLabel()
	return s
}

// ToggleListening flips the microphone toggle. The toggle is inert: it only
// changes what the indicator shows.
func (s AssistantStatus) ToggleListening() AssistantStatus {
	s.IsListening = !s.IsListening
	if s.IsListening {
		s.Status = LabelListening
	} else {
		s.Status = s.restingLabel()
	}
	return s
}

// ToggleSpeaking flips the speaker toggle. Like listening it is inert.
func (s AssistantStatus) ToggleSpeaking() AssistantStatus {
	s.IsSpeaking = !s.IsSpeaking
	if s.IsThinking || s.IsListening {
		return s
	}
	s.Status = s.restingLabel()
	return s
}

func (s AssistantStatus) restingLabel() string {
	switch {
	case s.IsThinking:
		return LabelThinking
	case s.IsListening:
		return LabelListening
	case s.IsSpeaking:
		return LabelSpeaking
	default:
		return LabelAvailable
	}
}
