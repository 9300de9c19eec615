package excel

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeTempCSV(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "patients.csv")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestPatientReader_CSV(t *testing.T) {
	path := writeTempCSV(t,
		"name,age,sex,chest_pain_type,resting_bp,cholesterol,fasting_bs,resting_ecg,max_hr,exercise_angina,oldpeak,st_slope\n"+
			"Budi,61,M,ASY,145,250,1,ST,110,Y,2.5,Flat\n"+
			"Sari,30,F,ATA,110,180,0,Normal,170,N,0.5,Up\n")

	patients, err := NewPatientReader(path).Read()
	require.NoError(t, err)
	require.Len(t, patients, 2)

	assert.Equal(t, "Budi", patients[0].Name)
	assert.Equal(t, "61", patients[0].Age)
	assert.Equal(t, "Flat", patients[0].STSlope)
	assert.Equal(t, "Sari", patients[1].Name)
	assert.Equal(t, "0.5", patients[1].Oldpeak)
}

func TestPatientReader_AlternateHeaderSpelling(t *testing.T) {
	// Headers in the compact dataset spelling still map to the form fields.
	path := writeTempCSV(t,
		"Name,Age,Sex,ChestPainType,RestingBP,Cholesterol,FastingBS,RestingECG,MaxHR,ExerciseAngina,Oldpeak,ST_Slope\n"+
			"Budi,61,M,ASY,145,250,1,ST,110,Y,2.5,Flat\n")

	patients, err := NewPatientReader(path).Read()
	require.NoError(t, err)
	require.Len(t, patients, 1)
	assert.Equal(t, "ASY", patients[0].ChestPainType)
	assert.Equal(t, "145", patients[0].RestingBP)
	assert.Equal(t, "Flat", patients[0].STSlope)
}

func TestPatientReader_MissingFile(t *testing.T) {
	_, err := NewPatientReader("/no/such/file.csv").Read()
	assert.Error(t, err)
}

func TestPatientReader_HeaderOnly(t *testing.T) {
	path := writeTempCSV(t, "name,age\n")
	_, err := NewPatientReader(path).Read()
	assert.Error(t, err)
}
