package medical

import (
	"encoding/json"
	"fmt"

	"github.com/m-mizutani/goerr/v2"
	"github.com/m-mizutani/tamarin/pkg/model"
)

// buildUserPrompt assembles the structured context handed to the model:
// patient ID, exam date, results and patient info. The retrieved history is
// attached so the model can compare trends even before its first tool call.
func buildUserPrompt(lab *model.LabResult, history *model.QueryResult) (string, error) {
	results, err := json.MarshalIndent(lab.Results, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal lab results")
	}

	info, err := json.MarshalIndent(lab.PatientInfo, "", "  ")
	if err != nil {
		return "", goerr.Wrap(err, "failed to marshal patient info")
	}

	examDate := lab.ExamDate
	if examDate == "" {
		examDate = "não informada"
	}

	prompt := fmt.Sprintf(`NOVO EXAME LABORATORIAL RECEBIDO:

Paciente: %s
Data: %s

Resultados:
%s

Informações do Paciente:
%s
`, lab.PatientID, examDate, results, info)

	if history != nil {
		if history.Status == model.StatusSuccess {
			organized, err := json.MarshalIndent(history.Memory, "", "  ")
			if err != nil {
				return "", goerr.Wrap(err, "failed to marshal history")
			}
			prompt += fmt.Sprintf("\nHistórico recente do paciente:\n%s\n", organized)
		} else {
			prompt += "\nHistórico do paciente indisponível no momento.\n"
		}
	}

	prompt += `
AÇÕES SOLICITADAS:
1. Consulte a memória do paciente
2. Analise os resultados considerando o histórico
3. Salve sua análise na memória
4. Se necessário, crie eventos apropriados
5. Forneça um relatório resumido
`

	return prompt, nil
}
