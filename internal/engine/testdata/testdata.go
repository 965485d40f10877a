// Package testdata generates deterministic synthetic employee records
// for engine, trainer and scorer tests. Attrition correlates with
// overtime, low income and short tenure, so a fitted model has real
// signal to find without shipping HR data in the repo.
package testdata

import (
	"fmt"
	"math/rand"

	"github.com/crimson-sun/tenure/internal/artifact"
	"github.com/crimson-sun/tenure/internal/engine/classifier"
	"github.com/crimson-sun/tenure/internal/engine/cleaner"
	"github.com/crimson-sun/tenure/internal/engine/encoder"
	"github.com/crimson-sun/tenure/internal/frame"
	"github.com/crimson-sun/tenure/internal/model"
	"github.com/crimson-sun/tenure/internal/schema"
)

var (
	statuts   = []string{"Célibataire", "Marié(e)", "Divorcé(e)"}
	deps      = []string{"Commercial", "Consulting", "Ressources Humaines"}
	postes    = []string{"Consultant", "Manager", "Tech Lead", "Assistant de Direction", "Senior Manager"}
	domaines  = []string{"Infra & Cloud", "Marketing", "Ressources Humaines", "Transformation Digitale"}
	frequence = []string{"Aucun", "Occasionnel", "Frequent"}
)

// Generate returns n synthetic employee records with their Oui/Non
// attrition labels. Output is identical for a given seed.
func Generate(n int, seed int64) ([]model.Employee, []string) {
	rng := rand.New(rand.NewSource(seed))

	recs := make([]model.Employee, n)
	labels := make([]string, n)
	for i := range recs {
		overtime := "Non"
		if rng.Float64() < 0.3 {
			overtime = "Oui"
		}
		income := 2000 + rng.Float64()*6000
		tenure := rng.Intn(20)
		genre := "M"
		if rng.Float64() < 0.5 {
			genre = "F"
		}

		recs[i] = model.Employee{
			Age:                                   22 + rng.Intn(38),
			Genre:                                 genre,
			RevenuMensuel:                         income,
			StatutMarital:                         statuts[rng.Intn(len(statuts))],
			Departement:                           deps[rng.Intn(len(deps))],
			Poste:                                 postes[rng.Intn(len(postes))],
			NombreExperiencesPrecedentes:          rng.Intn(6),
			AnneesDansLEntreprise:                 tenure,
			SatisfactionEmployeeEnvironnement:     1 + rng.Intn(4),
			NoteEvaluationPrecedente:              1 + rng.Intn(4),
			SatisfactionEmployeeNatureTravail:     1 + rng.Intn(4),
			SatisfactionEmployeeEquipe:            1 + rng.Intn(4),
			SatisfactionEmployeeEquilibreProPerso: 1 + rng.Intn(4),
			NoteEvaluationActuelle:                1 + rng.Intn(4),
			HeureSupplementaires:                  overtime,
			AugmentationSalairePrecedente:         fmt.Sprintf("%d %%", 11+rng.Intn(14)),
			NombreParticipationPee:                rng.Intn(3),
			NbFormationsSuivies:                   rng.Intn(6),
			DistanceDomicileTravail:               1 + rng.Intn(29),
			NiveauEducation:                       1 + rng.Intn(5),
			DomaineEtude:                          domaines[rng.Intn(len(domaines))],
			FrequenceDeplacement:                  frequence[rng.Intn(len(frequence))],
			AnneesDepuisLaDernierePromotion:       rng.Intn(8),
		}

		// Attrition risk rises with overtime, low pay and short tenure.
		risk := 0.08
		if overtime == "Oui" {
			risk += 0.45
		}
		if income < 3500 {
			risk += 0.25
		}
		if tenure < 3 {
			risk += 0.15
		}
		labels[i] = "Non"
		if rng.Float64() < risk {
			labels[i] = "Oui"
		}
	}
	return recs, labels
}

// TrainingFrame lays records out as a raw training table: the attribute
// columns plus identifier and label columns, as a store would return it.
func TrainingFrame(recs []model.Employee, labels []string) *frame.Frame {
	f := model.FrameOf(recs)
	ids := make([]float64, len(recs))
	for i := range ids {
		ids[i] = float64(i + 1)
	}
	_ = f.AddFloats(schema.IDColumn, ids, nil)
	_ = f.AddStrings(schema.LabelColumn, labels, nil)
	return f
}

// FitPipeline trains a pipeline artifact on n generated records,
// mirroring the trainer's clean, fit and stamp steps. Test support for
// packages that need a real artifact without running a full training job.
func FitPipeline(n int, seed int64) (*artifact.Pipeline, error) {
	reg := schema.Default()
	recs, labels := Generate(n, seed)
	raw := TrainingFrame(recs, labels)

	cleaned, _, err := cleaner.New(reg).Clean(raw, cleaner.Training)
	if err != nil {
		return nil, err
	}

	target, ok := cleaned.Column(schema.TargetColumn)
	if !ok {
		return nil, fmt.Errorf("testdata: cleaned frame has no target column")
	}
	y := make([]float64, target.Len())
	for i := range y {
		v, ok := target.Float(i)
		if !ok {
			return nil, fmt.Errorf("testdata: null target at row %d", i)
		}
		y[i] = v
	}

	feats := cleaned.Clone()
	feats.Drop(schema.TargetColumn, schema.IDColumn)
	numeric, nominal, ordinal := reg.Partition(feats.Names())
	X, fitted, err := encoder.Fit(feats, numeric, nominal, ordinal, reg.OrdinalOrders())
	if err != nil {
		return nil, err
	}

	clf, err := classifier.Fit(X, y, classifier.DefaultOptions())
	if err != nil {
		return nil, err
	}
	return artifact.New(fitted, clf), nil
}
