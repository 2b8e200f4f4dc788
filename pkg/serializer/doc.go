// Package serializer writes run reports as JSON, YAML or a plain text table.
//
// Usage:
//
//	w, err := serializer.NewFileWriter(serializer.FormatYAML, "/tmp/report.yaml")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//	err = w.Serialize(ctx, report)
//
// The table format requires the value to implement Tabular.
package serializer
