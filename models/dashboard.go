package models

type DashboardStats struct {
	LocalitiesTotal   int `json:"localidades_total"`
	DisciplinesActive int `json:"disciplinas_activas"`
	TeamsTotal        int `json:"equipos_total"`
	TeamsPending      int `json:"equipos_pendientes"`
	TeamsApproved     int `json:"equipos_aprobados"`
	ParticipantsTotal int `json:"participantes_total"`
}

// DisciplineReportRow is one line of the per-discipline enrollment
// report the UI renders to PDF/Excel.
type DisciplineReportRow struct {
	DisciplineID int    `json:"disciplina_id"`
	Disciplina   string `json:"disciplina"`
	Genero       string `json:"genero"`
	Equipos      int    `json:"equipos"`
	Deportistas  int    `json:"deportistas"`
	Entrenadores int    `json:"entrenadores"`
	Delegados    int    `json:"delegados"`
}

// LocalityReportRow is one line of the per-locality enrollment report.
type LocalityReportRow struct {
	LocalityID    int    `json:"localidad_id"`
	Localidad     string `json:"localidad"`
	Equipos       int    `json:"equipos"`
	Participantes int    `json:"participantes"`
}
