package memory_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/m-mizutani/gt"
	"github.com/m-mizutani/tamarin/pkg/model"
	memorysvc "github.com/m-mizutani/tamarin/pkg/service/memory"
	memorytool "github.com/m-mizutani/tamarin/pkg/tool/memory"
	"google.golang.org/genai"
)

type mockRepository struct {
	records []*model.MemoryRecord
}

func (m *mockRepository) PutRecord(_ context.Context, record *model.MemoryRecord) error {
	m.records = append(m.records, record)
	return nil
}

func (m *mockRepository) ListRecords(_ context.Context, patientID string, since time.Time, limit int) ([]*model.MemoryRecord, error) {
	var records []*model.MemoryRecord
	for _, record := range m.records {
		if record.PatientID == patientID && record.CreatedAt.After(since) {
			records = append(records, record)
		}
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].CreatedAt.After(records[j].CreatedAt)
	})
	if len(records) > limit {
		records = records[:limit]
	}
	return records, nil
}

func (m *mockRepository) Close() error { return nil }

func TestSpec(t *testing.T) {
	tool := memorytool.New(memorysvc.New(&mockRepository{}))

	spec := tool.Spec()
	gt.Equal(t, len(spec.FunctionDeclarations), 2)

	names := map[string]bool{}
	for _, fd := range spec.FunctionDeclarations {
		names[fd.Name] = true
	}
	gt.True(t, names["get_patient_memory"])
	gt.True(t, names["save_to_memory"])
}

func TestSaveThenGet(t *testing.T) {
	repo := &mockRepository{}
	tool := memorytool.New(memorysvc.New(repo))
	ctx := context.Background()

	saved, err := tool.Execute(ctx, genai.FunctionCall{
		Name: "save_to_memory",
		Args: map[string]any{
			"patient_id": "P1",
			"event_type": "decision",
			"data":       map[string]any{"note": "monitor glucose weekly"},
		},
	})
	gt.NoError(t, err)
	gt.Equal(t, saved.Name, "save_to_memory")
	gt.Equal(t, saved.Response["status"], "success")
	gt.Equal(t, len(repo.records), 1)
	gt.Equal(t, repo.records[0].EventType, model.EventTypeDecision)

	got, err := tool.Execute(ctx, genai.FunctionCall{
		Name: "get_patient_memory",
		Args: map[string]any{"patient_id": "P1", "days_back": float64(30)},
	})
	gt.NoError(t, err)
	gt.Equal(t, got.Response["status"], "success")

	memory, ok := got.Response["memory"].(map[string]any)
	gt.True(t, ok)
	total, ok := memory["total_records"].(float64)
	gt.True(t, ok)
	gt.Equal(t, total, 1.0)
	gt.Equal(t, memory["date_range"], "Últimos 30 dias")
}

func TestUnknownFunction(t *testing.T) {
	tool := memorytool.New(memorysvc.New(&mockRepository{}))

	_, err := tool.Execute(context.Background(), genai.FunctionCall{Name: "drop_memory"})
	gt.Error(t, err)
}
