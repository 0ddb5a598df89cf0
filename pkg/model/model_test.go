package model_test

import (
	"errors"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tamarin/pkg/model"
)

func TestLabResultValidate(t *testing.T) {
	lab := &model.LabResult{PatientID: "P1"}
	gt.NoError(t, lab.Validate())

	lab = &model.LabResult{}
	err := lab.Validate()
	gt.Error(t, err)
	gt.True(t, errors.Is(err, model.ErrValidation))
}

func TestIdentifiers(t *testing.T) {
	now := time.Unix(1756700000, 0)

	gt.Equal(t, model.NewRecordID("P1", now), model.RecordID("P1_1756700000"))
	gt.Equal(t, model.NewAppointmentID("P1", now), model.AppointmentID("APT-P1-1756700000"))
}

func TestEventKindValidate(t *testing.T) {
	for _, kind := range []model.EventKind{
		model.EventKindAppointment, model.EventKindAlert, model.EventKindReview,
	} {
		gt.NoError(t, kind.Validate())
	}
	gt.Error(t, model.EventKind("broadcast").Validate())
}

func TestSpecialistValidate(t *testing.T) {
	gt.NoError(t, model.SpecialistEndocrinologist.Validate())
	gt.NoError(t, model.SpecialistGeneralist.Validate())
	gt.Error(t, model.Specialist("dermatologista").Validate())
}

func TestHistoryAdd(t *testing.T) {
	history := &model.History{PatientID: "P1"}

	history.Add(&model.MemoryRecord{EventType: model.EventTypeLabResult})
	history.Add(&model.MemoryRecord{EventType: model.EventTypeCriticalDecision})
	history.Add(&model.MemoryRecord{EventType: model.EventType("telemetry")})

	gt.Equal(t, len(history.LabResults), 1)
	gt.Equal(t, len(history.Decisions), 1)
	gt.Equal(t, len(history.Other), 1)
	gt.Equal(t, history.TotalRecords, 3)
}
