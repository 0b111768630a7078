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
	"github.com/sirupsen/logrus"

	model2 "github.com/jerry-enebeli/caixa/api/model"
	"github.com/jerry-enebeli/caixa/model"
)

// ImportFile takes a multipart upload in the "file" field. The kind comes
// from the route; company_id, bank_account_id and default_category are
// optional form fields.
func (a Api) ImportFile(c *gin.Context) {
	kind := model.ImportKind(c.Param("kind"))
	file, header, err := c.Request.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "File upload failed"})
		return
	}
	defer file.Close()

	opts := model.ImportOptions{
		CompanyID:       c.PostForm("company_id"),
		BankAccountID:   c.PostForm("bank_account_id"),
		DefaultCategory: c.PostForm("default_category"),
	}

	summary, err := a.caixa.ImportFile(c.Request.Context(), kind, file, header.Filename, opts)
	if err != nil {
		respondError(c, err)
		return
	}
	logrus.WithFields(logrus.Fields{
		"batch_id": summary.BatchID,
		"file":     header.Filename,
		"errors":   summary.ErrorCount,
	}).Info("upload imported")
	c.JSON(http.StatusOK, summary)
}

func (a Api) Deduplicate(c *gin.Context) {
	resp, err := a.caixa.Deduplicate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) Analyze(c *gin.Context) {
	var req model2.Analyze
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := req.ValidateAnalyze(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.Analyze(c.Request.Context(), req.Description, req.Amount, req.DirectionValue())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, resp)
}

func (a Api) QuickEntry(c *gin.Context) {
	var req model2.QuickEntry
	if err := c.ShouldBindJSON(&req); err != nil {
		bindError(c, err)
		return
	}
	if err := req.ValidateQuickEntry(); err != nil {
		bindError(c, err)
		return
	}

	resp, err := a.caixa.QuickEntry(c.Request.Context(), req.ToQuickEntryInput())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, resp)
}
