package schema

// Column names with special roles in the raw HR extracts.
const (
	// IDColumn is the external employee key. Used for joins and audit
	// records only, never as a model feature.
	IDColumn = "id_employee"

	// LabelColumn is the textual attrition label present in training
	// data ("Oui"/"Non"). Absent from inference requests.
	LabelColumn = "a_quitte_l_entreprise"

	// TargetColumn is the numeric 0/1 target derived from LabelColumn
	// during cleaning.
	TargetColumn = "a_quitte_l_entreprise_numeric"
)

// LabelMapping converts the textual attrition label to the numeric target.
// Values outside the mapping become nulls, never zeros.
var LabelMapping = map[string]float64{"Oui": 1, "Non": 0}

// dropColumns are administrative, duplicated or low-value legacy columns
// removed during cleaning. The list is fixed: it mirrors the columns the
// historical extracts carry for bookkeeping but the model must never see.
var dropColumns = []string{
	"nombre_heures_travailless", // typo'd duplicate of contract hours, constant in the extracts
	"eval_number",
	"nombre_employee_sous_responsabilite",
	"code_sondage",
	"ayant_enfants",
	"annee_experience_totale",
	"niveau_hierarchique_poste",
	"annees_dans_le_poste_actuel",
	"annes_sous_responsable_actuel",
	"date_creation_enregistrement",
	"date_derniere_modification",
}

// Default returns the registry for the HR attrition schema: the ~23 raw
// employee attributes, their kinds, binary mappings, ordinal orders and
// nominal vocabularies.
func Default() *Registry {
	r, err := New(defaultFeatures(), dropColumns)
	if err != nil {
		// The default schema is a compile-time constant; failing to
		// build it is a programming error, not a runtime condition.
		panic(err)
	}
	return r
}

func defaultFeatures() []Feature {
	return []Feature{
		{Name: "age", Kind: Numeric},
		{Name: "genre", Kind: Binary, Mapping: map[string]float64{"M": 0, "F": 1}},
		{Name: "revenu_mensuel", Kind: Numeric},
		{Name: "statut_marital", Kind: Nominal, Vocab: []string{
			"Célibataire", "Marié(e)", "Divorcé(e)",
		}},
		{Name: "departement", Kind: Nominal, Vocab: []string{
			"Commercial", "Consulting", "Ressources Humaines",
		}},
		{Name: "poste", Kind: Nominal, Vocab: []string{
			"Cadre Commercial", "Représentant Commercial", "Consultant",
			"Tech Lead", "Manager", "Senior Manager",
			"Directeur Technique", "Ressources Humaines", "Assistant de Direction",
		}},
		{Name: "nombre_experiences_precedentes", Kind: Numeric},
		{Name: "annees_dans_l_entreprise", Kind: Numeric},
		{Name: "satisfaction_employee_environnement", Kind: Numeric},
		{Name: "note_evaluation_precedente", Kind: Numeric},
		{Name: "satisfaction_employee_nature_travail", Kind: Numeric},
		{Name: "satisfaction_employee_equipe", Kind: Numeric},
		{Name: "satisfaction_employee_equilibre_pro_perso", Kind: Numeric},
		{Name: "note_evaluation_actuelle", Kind: Numeric},
		{Name: "heure_supplementaires", Kind: Binary, Mapping: map[string]float64{"Non": 0, "Oui": 1}},
		{Name: "augementation_salaire_precedente", Kind: Numeric, Percent: true},
		{Name: "nombre_participation_pee", Kind: Numeric},
		{Name: "nb_formations_suivies", Kind: Numeric},
		{Name: "distance_domicile_travail", Kind: Numeric},
		{Name: "niveau_education", Kind: Numeric},
		{Name: "domaine_etude", Kind: Nominal, Vocab: []string{
			"Infra & Cloud", "Développement", "Transformation Digitale",
			"Marketing", "Ressources Humaines", "Entrepreneuriat", "Autre",
		}},
		{Name: "frequence_deplacement", Kind: Ordinal, Order: []string{
			"Aucun", "Occasionnel", "Frequent",
		}},
		{Name: "annees_depuis_la_derniere_promotion", Kind: Numeric},
	}
}
