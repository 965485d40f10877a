package tenure

import "github.com/crimson-sun/tenure/internal/model"

// Employee is one raw employee record. Field names follow the column
// names of the source HR extracts.
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
	AugmentationSalairePrecedente         string  `json:"augementation_salaire_precedente"`
	NombreParticipationPee                int     `json:"nombre_participation_pee"`
	NbFormationsSuivies                   int     `json:"nb_formations_suivies"`
	DistanceDomicileTravail               int     `json:"distance_domicile_travail"`
	NiveauEducation                       int     `json:"niveau_education"`
	DomaineEtude                          string  `json:"domaine_etude"`
	FrequenceDeplacement                  string  `json:"frequence_deplacement"`
	AnneesDepuisLaDernierePromotion       int     `json:"annees_depuis_la_derniere_promotion"`
}

// Prediction is the scoring result for one employee, tagged with the
// identifier the caller supplied. Class 1 means predicted to leave.
type Prediction struct {
	EmployeeID  string  `json:"id_employe"`
	Probability float64 `json:"probabilite_depart"`
	Class       int     `json:"prediction_depart"`
}

func internalEmployee(e Employee) model.Employee {
	return model.Employee{
		Age:                                   e.Age,
		Genre:                                 e.Genre,
		RevenuMensuel:                         e.RevenuMensuel,
		StatutMarital:                         e.StatutMarital,
		Departement:                           e.Departement,
		Poste:                                 e.Poste,
		NombreExperiencesPrecedentes:          e.NombreExperiencesPrecedentes,
		AnneesDansLEntreprise:                 e.AnneesDansLEntreprise,
		SatisfactionEmployeeEnvironnement:     e.SatisfactionEmployeeEnvironnement,
		NoteEvaluationPrecedente:              e.NoteEvaluationPrecedente,
		SatisfactionEmployeeNatureTravail:     e.SatisfactionEmployeeNatureTravail,
		SatisfactionEmployeeEquipe:            e.SatisfactionEmployeeEquipe,
		SatisfactionEmployeeEquilibreProPerso: e.SatisfactionEmployeeEquilibreProPerso,
		NoteEvaluationActuelle:                e.NoteEvaluationActuelle,
		HeureSupplementaires:                  e.HeureSupplementaires,
		AugmentationSalairePrecedente:         e.AugmentationSalairePrecedente,
		NombreParticipationPee:                e.NombreParticipationPee,
		NbFormationsSuivies:                   e.NbFormationsSuivies,
		DistanceDomicileTravail:               e.DistanceDomicileTravail,
		NiveauEducation:                       e.NiveauEducation,
		DomaineEtude:                          e.DomaineEtude,
		FrequenceDeplacement:                  e.FrequenceDeplacement,
		AnneesDepuisLaDernierePromotion:       e.AnneesDepuisLaDernierePromotion,
	}
}

func publicPrediction(p model.Prediction) Prediction {
	return Prediction{
		EmployeeID:  p.EmployeeID,
		Probability: p.Probability,
		Class:       p.Class,
	}
}
