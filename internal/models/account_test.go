package models_test

import (
	"github.com/coincraft/backend/internal/models"
)

func (suite *TestSuiteStandard) TestAccountTrimWhitespace() {
	account := suite.createTestAccount(models.Account{Name: "\t Savings  ", Note: " for later "})

	suite.Assert().Equal("Savings", account.Name)
	suite.Assert().Equal("for later", account.Note)
}

func (suite *TestSuiteStandard) TestAccountNameEmpty() {
	err := models.DB.Create(&models.Account{OwnerID: "owner", Name: "  "}).Error
	suite.Assert().ErrorIs(err, models.ErrNameEmpty)
	suite.Assert().ErrorIs(err, models.ErrInvalidInput)
}

func (suite *TestSuiteStandard) TestAccountNameNotUnique() {
	_ = suite.createTestAccount(models.Account{OwnerID: "alice", Name: "Bank"})

	err := models.DB.Create(&models.Account{OwnerID: "alice", Name: "Bank"}).Error
	suite.Assert().ErrorIs(err, models.ErrAccountNameNotUnique)

	// Names only need to be unique per owner
	err = models.DB.Create(&models.Account{OwnerID: "bob", Name: "Bank"}).Error
	suite.Assert().Nil(err)
}

func (suite *TestSuiteStandard) TestAccountDeleteInUse() {
	source := suite.createTestAccount(models.Account{Name: "Source"})
	category := suite.createTestCategory(models.Category{})

	err := models.DB.Create(&models.Transaction{
		OwnerID:         "owner",
		Kind:            models.TransactionKindExpense,
		Amount:          100,
		CategoryID:      &category.ID,
		SourceAccountID: source.ID,
	}).Error
	suite.Require().Nil(err)

	err = models.DB.Delete(&source).Error
	suite.Assert().ErrorIs(err, models.ErrResourceInUse)

	err = models.DB.Delete(&category).Error
	suite.Assert().ErrorIs(err, models.ErrResourceInUse)
}
