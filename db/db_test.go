package db

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func newTestDB(t *testing.T) *DB {
	t.Helper()

	ledger, err := New(filepath.Join(t.TempDir(), "aply_test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { ledger.Close() })

	return ledger
}

func sampleJDAnalysis() Document {
	return Document{
		"role_focus":       "communication_platforms",
		"key_requirements": []any{"UI/UX design", "frontend development", "React"},
		"company_culture":  "creative, user-focused",
		"skills_match":     []any{"React", "JavaScript", "Design Systems"},
	}
}

func sampleProfileMatch() Document {
	return Document{
		"matching_skills":     []any{"React", "JavaScript"},
		"missing_skills":      []any{"Figma"},
		"relevant_experience": []any{"Frontend development at TechCorp"},
		"credibility_factors": []any{"Strong React portfolio", "2+ years frontend experience"},
	}
}

func samplePositioning() Document {
	return Document{
		"key_strengths":     []any{"React expertise", "User-centered design"},
		"positioning_angle": "Experienced frontend developer with design sensibility",
		"emphasis_areas":    []any{"Technical skills", "Portfolio projects"},
	}
}

func sampleContent() Document {
	return Document{
		"summary": "Experienced React developer with strong design background",
		"experience": []any{
			map[string]any{
				"company": "TechCorp",
				"role":    "Frontend Developer",
				"highlights": []any{
					"Built responsive React applications",
					"Improved user engagement by 25%",
				},
			},
		},
	}
}

func createSampleApplication(t *testing.T, ledger *DB) int64 {
	t.Helper()

	id, err := ledger.CreateApplication(
		"Squarespace", "Frontend Developer", "Portugal",
		"Looking for experienced React developer...",
		sampleJDAnalysis(), 8, sampleProfileMatch(), samplePositioning(),
	)
	require.NoError(t, err)
	require.Greater(t, id, int64(0))

	return id
}
