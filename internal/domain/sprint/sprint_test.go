package sprint

import (
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/unbacklog/backlog-service/internal/domain"
)

func validSprint() Sprint {
	return Sprint{
		ID:        uuid.New(),
		ProjectID: uuid.New(),
		Objective: "Ship the payment flow",
		Status:    StatusPlanned,
	}
}

func TestSprint_Validate(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		modify    func(*Sprint)
		wantErr   bool
		wantField string
	}{
		{
			name:    "valid sprint passes",
			modify:  func(_ *Sprint) {},
			wantErr: false,
		},
		{
			name:      "empty objective fails",
			modify:    func(s *Sprint) { s.Objective = "" },
			wantErr:   true,
			wantField: "objective",
		},
		{
			name:      "whitespace-only objective fails",
			modify:    func(s *Sprint) { s.Objective = "  " },
			wantErr:   true,
			wantField: "objective",
		},
		{
			name:      "unknown status fails",
			modify:    func(s *Sprint) { s.Status = "PAUSED" },
			wantErr:   true,
			wantField: "status",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			s := validSprint()
			tt.modify(&s)
			err := s.Validate()

			if tt.wantErr {
				requireValidationField(t, err, tt.wantField)
			} else if err != nil {
				t.Errorf("Validate() = %v, want nil", err)
			}
		})
	}
}

func TestValidateDates(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	day := 24 * time.Hour

	tests := []struct {
		name      string
		start     time.Time
		finish    time.Time
		wantField string
	}{
		{
			name:   "future window passes",
			start:  now.Add(day),
			finish: now.Add(14 * day),
		},
		{
			name:   "start exactly now passes",
			start:  now,
			finish: now.Add(14 * day),
		},
		{
			name:   "same-day sprint passes",
			start:  now.Add(day),
			finish: now.Add(day),
		},
		{
			name:      "start in the past fails",
			start:     now.Add(-day),
			finish:    now.Add(14 * day),
			wantField: "start_date",
		},
		{
			name:      "finish before start fails",
			start:     now.Add(14 * day),
			finish:    now.Add(day),
			wantField: "finish_date",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			err := ValidateDates(tt.start, tt.finish, now)

			if tt.wantField != "" {
				requireValidationField(t, err, tt.wantField)
			} else if err != nil {
				t.Errorf("ValidateDates() = %v, want nil", err)
			}
		})
	}
}

func TestValidateDates_BothFieldsReported(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
	err := ValidateDates(now.Add(-48*time.Hour), now.Add(-72*time.Hour), now)

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	for _, field := range []string{"start_date", "finish_date"} {
		if _, ok := verr.Fields[field]; !ok {
			t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
		}
	}
}

func TestSprint_Deletable(t *testing.T) {
	t.Parallel()

	tests := []struct {
		status Status
		want   bool
	}{
		{StatusPlanned, true},
		{StatusActive, false},
		{StatusCompleted, false},
	}

	for _, tt := range tests {
		s := validSprint()
		s.Status = tt.status
		if got := s.Deletable(); got != tt.want {
			t.Errorf("Deletable() with status %s = %v, want %v", tt.status, got, tt.want)
		}
	}
}

func TestStatus_IsValid(t *testing.T) {
	t.Parallel()

	for _, s := range []Status{StatusPlanned, StatusActive, StatusCompleted} {
		if !s.IsValid() {
			t.Errorf("Status(%q).IsValid() = false, want true", s)
		}
	}
	for _, s := range []Status{"", "planned", "DONE"} {
		if s.IsValid() {
			t.Errorf("Status(%q).IsValid() = true, want false", s)
		}
	}
}

func requireValidationField(t *testing.T, err error, field string) {
	t.Helper()

	if err == nil {
		t.Fatal("Validate() = nil, want error")
	}
	if !errors.Is(err, domain.ErrValidation) {
		t.Errorf("errors.Is(err, ErrValidation) = false, got %v", err)
	}

	var verr *domain.ValidationError
	if !errors.As(err, &verr) {
		t.Fatalf("errors.As(err, *ValidationError) = false, got %T", err)
	}
	if _, ok := verr.Fields[field]; !ok {
		t.Errorf("ValidationError.Fields missing key %q, got %v", field, verr.Fields)
	}
}
