package cli

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/config/file"
	"github.com/custodia-labs/lexrag-cli/internal/adapters/driven/storage/memory"
	"github.com/custodia-labs/lexrag-cli/internal/core/domain"
)

// mockQueryService returns canned answers.
type mockQueryService struct {
	answers []domain.Answer
	err     error
	asked   []string
}

func (m *mockQueryService) Answer(_ context.Context, q string, _ int) (domain.Answer, error) {
	m.asked = append(m.asked, q)
	if m.err != nil {
		return domain.Answer{}, m.err
	}
	if len(m.answers) > 0 {
		return m.answers[0], nil
	}
	return domain.Answer{Query: q, Response: "respuesta"}, nil
}

func (m *mockQueryService) AnswerBatch(ctx context.Context, qs []string, k int) ([]domain.Answer, error) {
	answers := make([]domain.Answer, 0, len(qs))
	for _, q := range qs {
		answer, err := m.Answer(ctx, q, k)
		if err != nil {
			answer = domain.Answer{Query: q, Response: "Error procesando la consulta"}
		}
		answers = append(answers, answer)
	}
	return answers, nil
}

// mockIndexService returns a canned batch report.
type mockIndexService struct {
	report domain.BatchReport
	err    error
	runs   int
}

func (m *mockIndexService) Run(_ context.Context) (domain.BatchReport, error) {
	m.runs++
	return m.report, m.err
}

func (m *mockIndexService) IndexDocument(_ context.Context, doc domain.Document) domain.IndexOutcome {
	return domain.IndexOutcome{
		DocumentID: doc.ID,
		Status:     domain.IndexStatusIndexed,
		IndexedAt:  time.Now().UTC(),
	}
}

// setupTestServices swaps all wired services for in-memory fakes and
// returns a cleanup restoring the previous state.
func setupTestServices(t *testing.T) func() {
	t.Helper()

	oldQuery := queryService
	oldIndex := indexService
	oldConfig := configStore
	oldVector := vectorStore
	oldHistory := historyStore

	cfg, err := file.NewConfigStore(t.TempDir())
	require.NoError(t, err)

	queryService = &mockQueryService{}
	indexService = &mockIndexService{report: domain.BatchReport{Total: 1, Indexed: 1, SuccessRate: 100}}
	configStore = cfg
	vectorStore = memory.NewVectorStore()
	historyStore = memory.NewHistoryStore()

	return func() {
		queryService = oldQuery
		indexService = oldIndex
		configStore = oldConfig
		vectorStore = oldVector
		historyStore = oldHistory
		rootCmd.SetArgs(nil)
	}
}
