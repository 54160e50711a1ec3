package main

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/ahmadqo/student-course-roster/internal/model"
	"github.com/ahmadqo/student-course-roster/internal/screen"
)

func newCoursesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "courses",
		Aliases: []string{"course"},
		Short:   "Daftar, tambah, edit, hapus, dan detail course",
	}
	cmd.AddCommand(
		newCoursesListCmd(a),
		newCoursesAddCmd(a),
		newCoursesEditCmd(a),
		newCoursesDeleteCmd(a),
		newCoursesDetailCmd(a),
		newCoursesPDFCmd(a),
	)
	return cmd
}

func parseIDs(values []string) ([]uuid.UUID, error) {
	ids := make([]uuid.UUID, 0, len(values))
	for _, v := range values {
		id, err := uuid.Parse(v)
		if err != nil {
			return nil, fmt.Errorf("id siswa tidak valid %q: %w", v, err)
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// findCourse mencari course di hasil Fetch
func findCourse(s *screen.CoursesScreen, arg string) (model.Course, error) {
	id, err := uuid.Parse(arg)
	if err != nil {
		return model.Course{}, fmt.Errorf("id tidak valid: %w", err)
	}
	for _, c := range s.Courses {
		if c.ID == id {
			return c, nil
		}
	}
	return model.Course{}, fmt.Errorf("course %s tidak ditemukan", id)
}

func newCoursesListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "Tampilkan semua course",
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screen.NewCoursesScreen(a.client(), a.logger)
			if err := s.Fetch(cmd.Context()); err != nil {
				return err
			}
			return screen.RenderCourses(cmd.OutOrStdout(), s.Courses)
		},
	}
}

func newCoursesAddCmd(a *app) *cobra.Command {
	var name string
	var students []string
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Tambah course",
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(students)
			if err != nil {
				return err
			}

			s := screen.NewCoursesScreen(a.client(), a.logger)
			s.Add()
			form := *s.Form
			form.CourseName = name
			for _, id := range ids {
				if !form.IsSelected(id) {
					form.Toggle(id)
				}
			}

			if err := s.Submit(cmd.Context(), form); err != nil {
				return err
			}
			return screen.RenderCourses(cmd.OutOrStdout(), s.Courses)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "nama course")
	cmd.Flags().StringSliceVar(&students, "student", nil, "id siswa yang didaftarkan (bisa berulang)")
	cmd.MarkFlagRequired("name")
	return cmd
}

func newCoursesEditCmd(a *app) *cobra.Command {
	var name string
	var toggles []string
	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Ubah nama course atau pilih / batalkan siswa",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids, err := parseIDs(toggles)
			if err != nil {
				return err
			}

			s := screen.NewCoursesScreen(a.client(), a.logger)
			if err := s.Fetch(cmd.Context()); err != nil {
				return err
			}
			course, err := findCourse(s, args[0])
			if err != nil {
				return err
			}

			s.Edit(course)
			form := *s.Form
			if name != "" {
				form.CourseName = name
			}
			for _, id := range ids {
				form.Toggle(id)
			}

			if err := s.Submit(cmd.Context(), form); err != nil {
				return err
			}
			return screen.RenderCourses(cmd.OutOrStdout(), s.Courses)
		},
	}
	cmd.Flags().StringVar(&name, "name", "", "nama course baru")
	cmd.Flags().StringSliceVar(&toggles, "toggle", nil, "id siswa yang dipilih / dibatalkan (bisa berulang)")
	return cmd
}

func newCoursesDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Hapus course",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("id tidak valid: %w", err)
			}
			s := screen.NewCoursesScreen(a.client(), a.logger)
			if err := s.Delete(cmd.Context(), id); err != nil {
				return err
			}
			return screen.RenderCourses(cmd.OutOrStdout(), s.Courses)
		},
	}
}

func newCoursesDetailCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "detail <id>",
		Short: "Tampilkan course beserta siswa yang terdaftar",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s := screen.NewCoursesScreen(a.client(), a.logger)
			if err := s.Fetch(cmd.Context()); err != nil {
				return err
			}
			course, err := findCourse(s, args[0])
			if err != nil {
				return err
			}
			s.ShowDetail(cmd.Context(), course)
			return screen.RenderDetail(cmd.OutOrStdout(), s.Detail)
		},
	}
}

func newCoursesPDFCmd(a *app) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "pdf <id>",
		Short: "Download roster course sebagai PDF",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := uuid.Parse(args[0])
			if err != nil {
				return fmt.Errorf("id tidak valid: %w", err)
			}
			data, name, err := a.client().RosterPDF(cmd.Context(), id)
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
