package sampledata

// Sheet and column names of the generated workbook.
const (
	sheetName = "dados"

	colID           = "id_aluna"
	colName         = "nome"
	colWeek         = "semana"
	colDate         = "data"
	colActivity     = "atividade"
	colWeekday      = "dia_semana"
	colAttended     = "presenca"
	colSatisfaction = "satisfacao"
)

// Schedule of the program.
var (
	activities = []string{"Alongamento", "Caminhada", "Dança", "Hidroginástica", "Yoga"}
	weekdays   = []string{"Segunda", "Terça", "Quarta", "Quinta", "Sexta"}

	firstNames = []string{
		"Ana", "Benedita", "Cecília", "Dalva", "Elza", "Francisca", "Glória", "Helena",
		"Iracema", "Joana", "Lourdes", "Marta", "Neusa", "Olga", "Rosa", "Sônia", "Terezinha", "Vera",
	}
	lastNames = []string{"Silva", "Santos", "Oliveira", "Souza", "Lima", "Pereira", "Costa", "Almeida"}
)

// Simulation parameters.
const (
	classesPerParticipant = 2
	minAttendanceProb     = 0.45
	attendanceProbRange   = 0.5
	missingRatingProb     = 0.1
	minSatisfaction       = 1
	maxSatisfaction       = 5
	recentWeeks           = 4

	pointsPerAttendance  = 10
	pointsPerRatingPoint = 2
	goldPoints           = 200
	silverPoints         = 120
)
