/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package api

import (
	"net/http"

	"github.com/gin-gonic/gin"

	model2 "github.com/jerry-enebeli/caixa/api/model"
)

func (a Api) CreateBankAccount(c *gin.Context) {
	var newAccount model2.CreateBankAccount
	if err := c.ShouldBindJSON(&newAccount); err != nil {
		bindError(c, err)
		return
	}
	if err := newAccount.ValidateCreateBankAccount(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.CreateBankAccount(c.Request.Context(), newAccount.ToBankAccount())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetBankAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetBankAccount(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllBankAccounts(c *gin.Context) {
	resp, err := a.caixa.ListBankAccounts(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) UpdateBankAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var update model2.CreateBankAccount
	if err := c.ShouldBindJSON(&update); err != nil {
		bindError(c, err)
		return
	}
	if err := update.ValidateCreateBankAccount(); err != nil {
		bindError(c, err)
		return
	}

	account := update.ToBankAccount()
	account.ID = id
	resp, err := a.caixa.UpdateBankAccount(c.Request.Context(), account)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteBankAccount(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.DeleteBankAccount(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bank account deleted"})
}

func (a Api) RecordBankMovement(c *gin.Context) {
	var newMovement model2.RecordBankMovement
	if err := c.ShouldBindJSON(&newMovement); err != nil {
		bindError(c, err)
		return
	}
	if err := newMovement.ValidateRecordBankMovement(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.RecordBankMovement(c.Request.Context(), newMovement.ToBankMovement())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetBankMovement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetBankMovement(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

// GetAllBankMovements accepts ?bank_account_id= to list one account.
func (a Api) GetAllBankMovements(c *gin.Context) {
	resp, err := a.caixa.ListBankMovements(c.Request.Context(), c.Query("bank_account_id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteBankMovement(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.DeleteBankMovement(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "bank movement deleted"})
}

func (a Api) CreateSystemEntry(c *gin.Context) {
	var newEntry model2.CreateSystemEntry
	if err := c.ShouldBindJSON(&newEntry); err != nil {
		bindError(c, err)
		return
	}
	if err := newEntry.ValidateCreateSystemEntry(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.CreateSystemEntry(c.Request.Context(), newEntry.ToSystemEntry())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}

func (a Api) GetSystemEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	resp, err := a.caixa.GetSystemEntry(c.Request.Context(), id)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) GetAllSystemEntries(c *gin.Context) {
	resp, err := a.caixa.ListSystemEntries(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) DeleteSystemEntry(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := a.caixa.DeleteSystemEntry(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "system entry deleted"})
}
