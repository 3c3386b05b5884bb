package questionnaire

// FallbackQuestions returns the built-in question set used whenever the
// remote catalog cannot be loaded. Each call returns a fresh copy.
func FallbackQuestions() []Question {
	return []Question{
		{
			ID:           1,
			Text:         "Qual área de conhecimento mais desperta seu interesse?",
			QuestionType: "multiple_choice",
			Category:     "Interesse Acadêmico",
			Order:        1,
			Options: []Option{
				{ID: 1, Text: "Tecnologia e Computação", Value: "tech", Order: 1},
				{ID: 2, Text: "Ciências da Saúde", Value: "health", Order: 2},
				{ID: 3, Text: "Gestão e Negócios", Value: "business", Order: 3},
				{ID: 4, Text: "Arte e Beleza", Value: "beauty", Order: 4},
				{ID: 5, Text: "Logística e Operações", Value: "logistics", Order: 5},
			},
		},
		{
			ID:           2,
			Text:         "Como você prefere trabalhar?",
			QuestionType: "multiple_choice",
			Category:     "Estilo de Trabalho",
			Order:        2,
			Options: []Option{
				{ID: 6, Text: "Sozinho, focado em projetos técnicos", Value: "solo_tech", Order: 1},
				{ID: 7, Text: "Em equipe, cuidando de pessoas", Value: "team_care", Order: 2},
				{ID: 8, Text: "Coordenando processos e pessoas", Value: "coordination", Order: 3},
				{ID: 9, Text: "Criando e transformando", Value: "creative", Order: 4},
			},
		},
		{
			ID:           3,
			Text:         "Qual ambiente de trabalho você prefere?",
			QuestionType: "multiple_choice",
			Category:     "Ambiente de Trabalho",
			Order:        3,
			Options: []Option{
				{ID: 10, Text: "Escritório com computadores", Value: "office_tech", Order: 1},
				{ID: 11, Text: "Hospital ou clínica", Value: "healthcare", Order: 2},
				{ID: 12, Text: "Armazém ou centro de distribuição", Value: "warehouse", Order: 3},
				{ID: 13, Text: "Salão de beleza ou spa", Value: "salon", Order: 4},
			},
		},
	}
}
