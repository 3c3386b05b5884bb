package models

// SampleQuestions is the catalog seeded into an empty questions table.
func SampleQuestions() []Question {
	return []Question{
		{
			Text:         "Qual área de conhecimento mais desperta seu interesse?",
			QuestionType: "multiple_choice",
			Category:     "Interesse Acadêmico",
			Order:        1,
			IsActive:     true,
			Options: []QuestionOption{
				{Text: "Tecnologia e Computação", Value: "tech", Order: 1, WeightTI: 10, WeightEnfermagem: 2, WeightLogistica: 3, WeightAdministracao: 4, WeightEstetica: 1},
				{Text: "Ciências da Saúde", Value: "health", Order: 2, WeightTI: 2, WeightEnfermagem: 10, WeightLogistica: 1, WeightAdministracao: 3, WeightEstetica: 4},
				{Text: "Gestão e Negócios", Value: "business", Order: 3, WeightTI: 3, WeightEnfermagem: 2, WeightLogistica: 8, WeightAdministracao: 10, WeightEstetica: 2},
				{Text: "Arte e Beleza", Value: "beauty", Order: 4, WeightTI: 1, WeightEnfermagem: 3, WeightLogistica: 2, WeightAdministracao: 2, WeightEstetica: 10},
				{Text: "Logística e Operações", Value: "logistics", Order: 5, WeightTI: 4, WeightEnfermagem: 1, WeightLogistica: 10, WeightAdministracao: 6, WeightEstetica: 1},
			},
		},
		{
			Text:         "Como você prefere trabalhar?",
			QuestionType: "multiple_choice",
			Category:     "Estilo de Trabalho",
			Order:        2,
			IsActive:     true,
			Options: []QuestionOption{
				{Text: "Sozinho, focado em projetos técnicos", Value: "solo_tech", Order: 1, WeightTI: 9, WeightEnfermagem: 3, WeightLogistica: 4, WeightAdministracao: 2, WeightEstetica: 5},
				{Text: "Em equipe, cuidando de pessoas", Value: "team_care", Order: 2, WeightTI: 3, WeightEnfermagem: 9, WeightLogistica: 5, WeightAdministracao: 7, WeightEstetica: 8},
				{Text: "Coordenando processos e pessoas", Value: "coordination", Order: 3, WeightTI: 4, WeightEnfermagem: 5, WeightLogistica: 9, WeightAdministracao: 9, WeightEstetica: 3},
				{Text: "Criando e transformando", Value: "creative", Order: 4, WeightTI: 5, WeightEnfermagem: 4, WeightLogistica: 2, WeightAdministracao: 3, WeightEstetica: 9},
			},
		},
		{
			Text:         "Qual ambiente de trabalho você prefere?",
			QuestionType: "multiple_choice",
			Category:     "Ambiente de Trabalho",
			Order:        3,
			IsActive:     true,
			Options: []QuestionOption{
				{Text: "Escritório com computadores", Value: "office_tech", Order: 1, WeightTI: 9, WeightEnfermagem: 2, WeightLogistica: 6, WeightAdministracao: 8, WeightEstetica: 3},
				{Text: "Hospital ou clínica", Value: "healthcare", Order: 2, WeightTI: 1, WeightEnfermagem: 10, WeightLogistica: 1, WeightAdministracao: 2, WeightEstetica: 3},
				{Text: "Armazém ou centro de distribuição", Value: "warehouse", Order: 3, WeightTI: 3, WeightEnfermagem: 2, WeightLogistica: 10, WeightAdministracao: 4, WeightEstetica: 1},
				{Text: "Salão de beleza ou spa", Value: "salon", Order: 4, WeightTI: 1, WeightEnfermagem: 3, WeightLogistica: 1, WeightAdministracao: 2, WeightEstetica: 10},
			},
		},
	}
}
