package main

import (
	"fmt"
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/svoya-igra/gamebot/internal/config"
	"github.com/svoya-igra/gamebot/internal/repositories"
	"github.com/xuri/excelize/v2"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// Imports themes and questions from an xlsx workbook. One sheet per theme:
// the sheet name becomes the theme title, each row after the header is
// question text, answer, hard level.
func main() {
	if len(os.Args) < 2 {
		log.Fatal("usage: import_questions <file.xlsx>")
	}

	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("failed to load config:", err)
	}

	db, err := gorm.Open(postgres.Open(cfg.GetDSN()), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect database:", err)
	}

	f, err := excelize.OpenFile(os.Args[1])
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	themes := repositories.NewThemeRepository(db)
	totalImported := 0

	for _, sheetName := range f.GetSheetList() {
		fmt.Printf("Importing sheet: %s\n", sheetName)

		theme, err := themes.GetThemeByTitle(sheetName)
		if err != nil {
			fmt.Printf("Error looking up theme %s: %v\n", sheetName, err)
			continue
		}
		if theme == nil {
			theme, err = themes.CreateTheme(sheetName)
			if err != nil {
				fmt.Printf("Error creating theme %s: %v\n", sheetName, err)
				continue
			}
		}

		rows, err := f.GetRows(sheetName)
		if err != nil {
			fmt.Printf("Error reading sheet %s: %v\n", sheetName, err)
			continue
		}

		for i, row := range rows {
			if i == 0 || len(row) < 3 { // Skip header or invalid rows
				continue
			}

			// row[0]: Question Text
			// row[1]: Answer
			// row[2]: Hard Level (1..n, multiplies the round's base score)

			hardLevel, err := strconv.Atoi(row[2])
			if err != nil || hardLevel < 1 {
				fmt.Printf("Invalid hard level %q in row %d of %s\n", row[2], i, sheetName)
				continue
			}

			if _, err := themes.CreateQuestion(theme.ID, row[0], row[1], hardLevel); err != nil {
				fmt.Printf("Error creating question in row %d of %s: %v\n", i, sheetName, err)
				continue
			}
			totalImported++
		}
	}

	fmt.Printf("Successfully imported %d questions.\n", totalImported)
}
