package db

import (
	"encoding/csv"
	"idea-portal-backend/models"
	dbmodels "idea-portal-backend/models/db"
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// колонки файла учётных записей
const (
	colKind = iota
	colCorporateID
	colEmail
	colEmployeeName
	colEmployeeFunction
	colLocation
	colRole
	seedColumns
)

// InitPreload заполняет учётные записи из csv, существующие записи не меняются
func InitPreload(seedFile string) {
	if seedFile == "" {
		return
	}
	log.WithField("file", seedFile).Info("предзаполнение учётных записей")
	f, err := os.Open(seedFile)
	if err != nil {
		log.WithError(err).Error("ошибка открытия файла с учётными записями")
		return
	}
	defer f.Close()
	added, err := SeedCredentials(DB, f)
	if err != nil {
		log.WithError(err).Error("ошибка предзаполнения учётных записей")
		return
	}
	log.WithField("added", added).Info("учётные записи добавлены")
}

// SeedCredentials формат строки: kind;corporateId;email;employeeName;employeeFunction;location;role
func SeedCredentials(db *gorm.DB, r io.Reader) (int64, error) {
	lines, err := readCsv(r, ';')
	if err != nil {
		return 0, err
	}
	var added int64
	for k, line := range lines {
		if k == 0 && strings.EqualFold(strings.TrimSpace(line[colKind]), "kind") {
			continue
		}
		kind, rec, err := parseSeedLine(line)
		if err != nil {
			return added, errors.Wrapf(err, "строка %v", k+1)
		}
		res := db.
			Table(kind.Table()).
			Clauses(clause.OnConflict{DoNothing: true}).
			Create(&rec)
		if res.Error != nil {
			return added, errors.Wrapf(res.Error, "ошибка добавления %s", rec.CorporateID)
		}
		added += res.RowsAffected
	}
	return added, nil
}

func parseSeedLine(line []string) (dbmodels.CredentialKind, dbmodels.Credential, error) {
	if len(line) < seedColumns {
		return "", dbmodels.Credential{}, errors.Errorf("ожидается %d колонок, получено %d", seedColumns, len(line))
	}
	for i := range line {
		line[i] = strings.TrimSpace(line[i])
	}
	kind := dbmodels.CredentialKind(strings.ToLower(line[colKind]))
	if kind != dbmodels.UserCredentialKind && kind != dbmodels.AdminCredentialKind {
		return "", dbmodels.Credential{}, errors.Errorf("неизвестный вид учётной записи: %s", line[colKind])
	}
	if line[colCorporateID] == "" || line[colEmail] == "" {
		return "", dbmodels.Credential{}, errors.New("не заполнены corporateId или email")
	}
	rec := dbmodels.Credential{
		CorporateID:      line[colCorporateID],
		Email:            line[colEmail],
		EmployeeName:     line[colEmployeeName],
		EmployeeFunction: line[colEmployeeFunction],
		Location:         line[colLocation],
		Role:             models.UserRole(line[colRole]),
	}
	if kind == dbmodels.AdminCredentialKind && !rec.Role.IsAdmin() {
		return "", dbmodels.Credential{}, errors.Errorf("некорректная роль администратора: %s", line[colRole])
	}
	if kind == dbmodels.UserCredentialKind {
		rec.Role = models.EmployeeRole
	}
	return kind, rec, nil
}

func readCsv(r io.Reader, comma rune) ([][]string, error) {
	csvReader := csv.NewReader(r)
	csvReader.Comma = comma
	csvReader.FieldsPerRecord = -1
	records, err := csvReader.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "ошибка обработки файла")
	}
	return records, nil
}
