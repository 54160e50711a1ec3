package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahmadqo/student-course-roster/internal/screen"
)

func newStudentsCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "students",
		Aliases: []string{"student"},
		Short:   "Daftar, tambah, edit, dan hapus siswa",
	}
	cmd.AddCommand(
		newStudentsListCmd(a),
		newStudentsAddCmd(a),
		newStudentsEditCmd(a),
		newStudentsDeleteCmd(a),
		newStudentsImportCmd(a),
		newStudentsExportCmd(a),
	)
	return cmd
}

func newStudentsListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Tampilkan semua siswa",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screen.NewStudentsScreen(a.client(), a.logger)
			if err := s.Fetch(cmd.Context()); err != nil {
				return err
			}
			return screen.RenderStudents(cmd.OutOrStdout(), s.Students)
		},
	}
}

func newStudentsAddCmd(a *app) *cobra.Command {
	var name, dob string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Tambah siswa",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screen.NewStudentsScreen(a.client(), a.logger)
			s.Add()
			form := *s.Form
			form.Name = name
			if dob != "" {
				d, err := parseInputDate(dob)
				if err != nil {
					return err
				}
				form.DateOfBirth = d
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %s\n", form.Title(), form.Name, form.DisplayDate())
			if err := s.Save(cmd.Context(), form); err != nil {
				return err
			}
			return screen.RenderStudents(cmd.OutOrStdout(), s.Students)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "nama siswa")
	cmd.Flags().StringVar(&dob, "dob", "", "tanggal lahir DD-MM-YYYY (default hari ini)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newStudentsEditCmd(a *app) *cobra.Command {
	var name, dob string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Ubah nama atau tanggal lahir siswa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("id tidak valid: %w", err)
			}

			api := a.client()
			student, err := api.GetStudent(cmd.Context(), id)
			if err != nil {
				return err
			}

			s := screen.NewStudentsScreen(api, a.logger)
			s.Edit(*student)
			form := *s.Form
			if name != "" {
				form.Name = name
			}
			if dob != "" {
				d, err := parseInputDate(dob)
				if err != nil {
					return err
				}
				form.DateOfBirth = d
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %s, %s\n", form.Title(), form.Name, form.DisplayDate())
			if err := s.Save(cmd.Context(), form); err != nil {
				return err
			}
			return screen.RenderStudents(cmd.OutOrStdout(), s.Students)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "nama baru")
	cmd.Flags().StringVar(&dob, "dob", "", "tanggal lahir baru DD-MM-YYYY")
	return cmd
}

func newStudentsDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Hapus siswa dan keluarkan dari roster course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("id tidak valid: %w", err)
			}
			s := screen.NewStudentsScreen(a.client(), a.logger)
			if err := s.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return screen.RenderStudents(cmd.OutOrStdout(), s.Students)
		},
	}
}

func newStudentsImportCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "import <file.xlsx>",
		Short: "Import siswa dari file XLSX (kolom A nama, kolom B tanggal lahir)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			f, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer f.Close()

			result, err := a.client().ImportStudents(cmd.Context(), filepath.Base(args[0]), f)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Imported: %d, Skipped: %d\n", result.Imported, result.Skipped)
			for _, e := range result.Errors {
				fmt.Fprintln(out, "  -", e)
			}
			return nil
		},
	}
}

func newStudentsExportCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Download semua siswa sebagai XLSX",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, name, err := a.client().ExportStudents(cmd.Context())
			if err != nil {
				return err
			}
			if out == "" {
				out = name
			}
			return writeFile(out, data)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "file tujuan (default nama dari server)")
	return cmd
}
