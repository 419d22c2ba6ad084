package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/school-system/results-portal/internal/gradecard"
	"github.com/school-system/results-portal/internal/results"
	"github.com/school-system/results-portal/internal/services"
)

func newImportCmd(a *app) *cobra.Command {
	var resultKey string

	cmd := &cobra.Command{
		Use:   "import --key RESULT_KEY FILE...",
		Short: "Merge CSV/XLS/XLSX result sheets into the store",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}

			files := make([]services.UploadFile, 0, len(args))
			for _, path := range args {
				files = append(files, services.FileFromPath(path))
			}

			report, err := svc.Upload(cmd.Context(), resultKey, files)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			for _, msg := range report.Messages {
				fmt.Fprintln(out, msg)
			}
			fmt.Fprintf(out, "Total uploaded for %s: %d\n", report.ResultKey, report.TotalUploaded)
			if errs := report.Errors(); len(errs) == len(report.Files) {
				return fmt.Errorf("no file could be processed")
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&resultKey, "key", "", "Result key the files belong to, e.g. 2024_Sem4_Regular (required)")
	_ = cmd.MarkFlagRequired("key")
	return cmd
}

func newFilesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "files",
		Short: "List uploaded file records",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			files, err := svc.ListUploadedFiles(cmd.Context())
			if err != nil {
				return err
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "RESULT KEY\tFILENAME\tRECORDS\tTYPE\tUPLOADED")
			for _, f := range files {
				fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\n", f.ResultKey, f.Filename, f.TotalRecords, f.FileExtension, f.UploadTime)
			}
			return tw.Flush()
		},
	}
}

func newDeleteFileCmd(a *app) *cobra.Command {
	var resultKey, filename string

	cmd := &cobra.Command{
		Use:   "delete-file",
		Short: "Delete a file record and every student result under its key",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			out, err := svc.DeleteFileRecord(cmd.Context(), resultKey, filename)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %d file record(s) and %d student result(s)\n",
				out.RemovedFileRecords, out.AffectedStudentEntries)
			return nil
		},
	}

	cmd.Flags().StringVar(&resultKey, "key", "", "Result key (required)")
	cmd.Flags().StringVar(&filename, "filename", "", "Uploaded file name (required)")
	_ = cmd.MarkFlagRequired("key")
	_ = cmd.MarkFlagRequired("filename")
	return cmd
}

func newResetCmd(a *app) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "reset",
		Short: "Remove every result and file record",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !yes {
				return errors.New("refusing to reset without --yes")
			}
			svc, err := a.service()
			if err != nil {
				return err
			}
			if err := svc.Reset(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "All results have been cleared")
			return nil
		},
	}

	cmd.Flags().BoolVar(&yes, "yes", false, "Confirm the reset")
	return cmd
}

func newExportCmd(a *app) *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Print the store as JSON with unusable values shown as N/A",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			store, err := svc.Export(cmd.Context())
			if err != nil {
				return err
			}
			data, err := json.MarshalIndent(results.NewStoreView(store), "", "    ")
			if err != nil {
				return err
			}
			data = append(data, '\n')

			if outPath == "" {
				_, err = cmd.OutOrStdout().Write(data)
				return err
			}
			return os.WriteFile(outPath, data, 0o644)
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Write to this file instead of stdout")
	return cmd
}

func newGradeCardCmd(a *app) *cobra.Command {
	var studentID, resultKey, outPath string

	cmd := &cobra.Command{
		Use:   "gradecard",
		Short: "Render a student's grade card as PDF",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			svc, err := a.service()
			if err != nil {
				return err
			}
			detail, err := svc.GradeCardData(cmd.Context(), studentID, resultKey)
			if err != nil {
				return err
			}

			if outPath == "" {
				outPath = fmt.Sprintf("%s_%s_grade_card.pdf", detail.Metadata.StudentID, detail.Result.ResultKey)
			}
			f, err := os.Create(outPath)
			if err != nil {
				return err
			}
			opts := gradecard.Options{Institution: a.cfg.Institution.Name, Subtitle: a.cfg.Institution.Subtitle}
			if err := gradecard.Render(f, detail.Metadata, detail.Result, opts); err != nil {
				f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", outPath)
			return nil
		},
	}

	cmd.Flags().StringVar(&studentID, "id", "", "Student ID (required)")
	cmd.Flags().StringVar(&resultKey, "key", "", "Result key (defaults to the student's latest key)")
	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file")
	_ = cmd.MarkFlagRequired("id")
	return cmd
}

func newHashPasswordCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "hash-password PASSWORD",
		Short: "Print an argon2id hash for ADMIN_PASSWORD_HASH",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hash, err := services.NewPasswordHash(args[0], a.cfg.Argon2)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), hash)
			return nil
		},
	}
}
