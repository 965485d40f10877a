package model

import "github.com/crimson-sun/tenure/internal/frame"

// Employee is the raw input record for one employee, as received from the
// HTTP layer or read back from an audit row. Field names match the column
// names of the source HR extracts; they are the wire contract and must not
// be renamed. The attrition label is deliberately absent: inference inputs
// never carry it.
type Employee struct {
	Age                                   int     `json:"age"`
	Genre                                 string  `json:"genre"`
	RevenuMensuel                         float64 `json:"revenu_mensuel"`
	StatutMarital                         string  `json:"statut_marital"`
	Departement                           string  `json:"departement"`
	Poste                                 string  `json:"poste"`
	NombreExperiencesPrecedentes          int     `json:"nombre_experiences_precedentes"`
	AnneesDansLEntreprise                 int     `json:"annees_dans_l_entreprise"`
	SatisfactionEmployeeEnvironnement     int     `json:"satisfaction_employee_environnement"`
	NoteEvaluationPrecedente              int     `json:"note_evaluation_precedente"`
	SatisfactionEmployeeNatureTravail     int     `json:"satisfaction_employee_nature_travail"`
	SatisfactionEmployeeEquipe            int     `json:"satisfaction_employee_equipe"`
	SatisfactionEmployeeEquilibreProPerso int     `json:"satisfaction_employee_equilibre_pro_perso"`
	NoteEvaluationActuelle                int     `json:"note_evaluation_actuelle"`
	HeureSupplementaires                  string  `json:"heure_supplementaires"`
	AugmentationSalairePrecedente         string  `json:"augementation_salaire_precedente"` // source column name carries the typo
	NombreParticipationPee                int     `json:"nombre_participation_pee"`
	NbFormationsSuivies                   int     `json:"nb_formations_suivies"`
	DistanceDomicileTravail               int     `json:"distance_domicile_travail"`
	NiveauEducation                       int     `json:"niveau_education"`
	DomaineEtude                          string  `json:"domaine_etude"`
	FrequenceDeplacement                  string  `json:"frequence_deplacement"`
	AnneesDepuisLaDernierePromotion       int     `json:"annees_depuis_la_derniere_promotion"`
}

// FrameOf lays a batch of employee records out as a column frame, one
// column per raw attribute, in schema declaration order. Numeric fields
// become float columns; categorical and percent-formatted fields stay as
// string columns for the cleaner to process.
func FrameOf(recs []Employee) *frame.Frame {
	n := len(recs)
	str := func(get func(Employee) string) []string {
		out := make([]string, n)
		for i, r := range recs {
			out[i] = get(r)
		}
		return out
	}
	num := func(get func(Employee) float64) []float64 {
		out := make([]float64, n)
		for i, r := range recs {
			out[i] = get(r)
		}
		return out
	}

	f := frame.New()
	// add never fails here: all columns share the batch length and names
	// are unique by construction.
	_ = f.AddFloats("age", num(func(e Employee) float64 { return float64(e.Age) }), nil)
	_ = f.AddStrings("genre", str(func(e Employee) string { return e.Genre }), nil)
	_ = f.AddFloats("revenu_mensuel", num(func(e Employee) float64 { return e.RevenuMensuel }), nil)
	_ = f.AddStrings("statut_marital", str(func(e Employee) string { return e.StatutMarital }), nil)
	_ = f.AddStrings("departement", str(func(e Employee) string { return e.Departement }), nil)
	_ = f.AddStrings("poste", str(func(e Employee) string { return e.Poste }), nil)
	_ = f.AddFloats("nombre_experiences_precedentes", num(func(e Employee) float64 { return float64(e.NombreExperiencesPrecedentes) }), nil)
	_ = f.AddFloats("annees_dans_l_entreprise", num(func(e Employee) float64 { return float64(e.AnneesDansLEntreprise) }), nil)
	_ = f.AddFloats("satisfaction_employee_environnement", num(func(e Employee) float64 { return float64(e.SatisfactionEmployeeEnvironnement) }), nil)
	_ = f.AddFloats("note_evaluation_precedente", num(func(e Employee) float64 { return float64(e.NoteEvaluationPrecedente) }), nil)
	_ = f.AddFloats("satisfaction_employee_nature_travail", num(func(e Employee) float64 { return float64(e.SatisfactionEmployeeNatureTravail) }), nil)
	_ = f.AddFloats("satisfaction_employee_equipe", num(func(e Employee) float64 { return float64(e.SatisfactionEmployeeEquipe) }), nil)
	_ = f.AddFloats("satisfaction_employee_equilibre_pro_perso", num(func(e Employee) float64 { return float64(e.SatisfactionEmployeeEquilibreProPerso) }), nil)
	_ = f.AddFloats("note_evaluation_actuelle", num(func(e Employee) float64 { return float64(e.NoteEvaluationActuelle) }), nil)
	_ = f.AddStrings("heure_supplementaires", str(func(e Employee) string { return e.HeureSupplementaires }), nil)
	_ = f.AddStrings("augementation_salaire_precedente", str(func(e Employee) string { return e.AugmentationSalairePrecedente }), nil)
	_ = f.AddFloats("nombre_participation_pee", num(func(e Employee) float64 { return float64(e.NombreParticipationPee) }), nil)
	_ = f.AddFloats("nb_formations_suivies", num(func(e Employee) float64 { return float64(e.NbFormationsSuivies) }), nil)
	_ = f.AddFloats("distance_domicile_travail", num(func(e Employee) float64 { return float64(e.DistanceDomicileTravail) }), nil)
	_ = f.AddFloats("niveau_education", num(func(e Employee) float64 { return float64(e.NiveauEducation) }), nil)
	_ = f.AddStrings("domaine_etude", str(func(e Employee) string { return e.DomaineEtude }), nil)
	_ = f.AddStrings("frequence_deplacement", str(func(e Employee) string { return e.FrequenceDeplacement }), nil)
	_ = f.AddFloats("annees_depuis_la_derniere_promotion", num(func(e Employee) float64 { return float64(e.AnneesDepuisLaDernierePromotion) }), nil)
	return f
}
