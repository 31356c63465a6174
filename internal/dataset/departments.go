package dataset

import "sort"

// Department describes one of the 24 health-service catchment areas
type Department struct {
	Code     string
	Name     string
	Province string
}

// Province names
const (
	ProvinceCastellon = "Castellón"
	ProvinceValencia  = "Valencia"
	ProvinceAlicante  = "Alicante"
)

// Provinces lists the three provinces north to south.
var Provinces = []string{ProvinceCastellon, ProvinceValencia, ProvinceAlicante}

// departments is the fixed 24-code catalog. Codes follow the official
// department numbering of the regional health service.
var departments = map[string]Department{
	"D01": {"D01", "Vinaròs", ProvinceCastellon},
	"D02": {"D02", "Castelló", ProvinceCastellon},
	"D03": {"D03", "La Plana", ProvinceCastellon},
	"D04": {"D04", "Sagunt", ProvinceValencia},
	"D05": {"D05", "València-Clínic-Malvarrosa", ProvinceValencia},
	"D06": {"D06", "València-Arnau de Vilanova-Llíria", ProvinceValencia},
	"D07": {"D07", "València-La Fe", ProvinceValencia},
	"D08": {"D08", "Requena", ProvinceValencia},
	"D09": {"D09", "València-Hospital General", ProvinceValencia},
	"D10": {"D10", "València-Doctor Peset", ProvinceValencia},
	"D11": {"D11", "La Ribera", ProvinceValencia},
	"D12": {"D12", "Gandia", ProvinceValencia},
	"D13": {"D13", "Dénia", ProvinceAlicante},
	"D14": {"D14", "Xàtiva-Ontinyent", ProvinceValencia},
	"D15": {"D15", "Alcoi", ProvinceAlicante},
	"D16": {"D16", "Marina Baixa", ProvinceAlicante},
	"D17": {"D17", "Sant Joan d'Alacant", ProvinceAlicante},
	"D18": {"D18", "Elda", ProvinceAlicante},
	"D19": {"D19", "Alacant-Hospital General", ProvinceAlicante},
	"D20": {"D20", "Elx-Hospital General", ProvinceAlicante},
	"D21": {"D21", "Orihuela", ProvinceAlicante},
	"D22": {"D22", "Torrevieja", ProvinceAlicante},
	"D23": {"D23", "Manises", ProvinceValencia},
	"D24": {"D24", "Elx-Crevillent", ProvinceAlicante},
}

// LookupDepartment returns the department for a code
func LookupDepartment(code string) (Department, bool) {
	dep, ok := departments[code]
	return dep, ok
}

// ProvinceFor returns the province for a department code
func ProvinceFor(code string) (string, bool) {
	dep, ok := departments[code]
	if !ok {
		return "", false
	}
	return dep.Province, true
}

// DepartmentCodes returns all 24 codes in sorted order
func DepartmentCodes() []string {
	codes := make([]string, 0, len(departments))
	for code := range departments {
		codes = append(codes, code)
	}
	sort.Strings(codes)
	return codes
}

// DepartmentName returns the display name for a code, falling back to the
// code itself for robustness in labels.
func DepartmentName(code string) string {
	if dep, ok := departments[code]; ok {
		return dep.Name
	}
	return code
}
