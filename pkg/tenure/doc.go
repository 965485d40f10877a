// Package tenure provides an employee attrition scorer backed by a
// trained pipeline artifact.
//
// Quick start:
//
//	t, err := tenure.New(tenure.WithArtifactPath("models/pipeline.json"))
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	pred, _ := t.Score(ctx, rec, "emp-1042")
//	fmt.Println(pred.Probability, pred.Class)
//
// The Tenure instance is safe for concurrent use. The artifact loads
// lazily on first score and is shared across goroutines; replace it on
// disk and call Reload to pick up a newly trained model.
package tenure
