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
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/jerry-enebeli/caixa"
	"github.com/jerry-enebeli/caixa/api/middleware"
	"github.com/jerry-enebeli/caixa/config"
	"github.com/jerry-enebeli/caixa/internal/apierror"
)

type Api struct {
	caixa  *caixa.Caixa
	router *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/suppliers", a.CreateSupplier)
	router.GET("/suppliers/:id", a.GetSupplier)
	router.GET("/suppliers", a.GetAllSuppliers)
	router.PUT("/suppliers/:id", a.UpdateSupplier)
	router.DELETE("/suppliers/:id", a.DeleteSupplier)

	router.POST("/companies", a.CreateCompany)
	router.GET("/companies/:id", a.GetCompany)
	router.GET("/companies", a.GetAllCompanies)
	router.PUT("/companies/:id", a.UpdateCompany)
	router.DELETE("/companies/:id", a.DeleteCompany)

	router.POST("/bank-accounts", a.CreateBankAccount)
	router.GET("/bank-accounts/:id", a.GetBankAccount)
	router.GET("/bank-accounts", a.GetAllBankAccounts)
	router.PUT("/bank-accounts/:id", a.UpdateBankAccount)
	router.DELETE("/bank-accounts/:id", a.DeleteBankAccount)
	router.GET("/bank-accounts/:id/reconciliation-summary", a.GetReconciliationSummary)

	router.POST("/bank-movements", a.RecordBankMovement)
	router.GET("/bank-movements/:id", a.GetBankMovement)
	router.GET("/bank-movements", a.GetAllBankMovements)
	router.DELETE("/bank-movements/:id", a.DeleteBankMovement)

	router.POST("/system-entries", a.CreateSystemEntry)
	router.GET("/system-entries/:id", a.GetSystemEntry)
	router.GET("/system-entries", a.GetAllSystemEntries)
	router.DELETE("/system-entries/:id", a.DeleteSystemEntry)

	router.POST("/obligations", a.CreateObligation)
	router.GET("/obligations/:id", a.GetObligation)
	router.GET("/obligations", a.GetAllObligations)
	router.PUT("/obligations/:id", a.UpdateObligation)
	router.DELETE("/obligations/:id", a.DeleteObligation)
	router.POST("/obligations/refresh-statuses", a.RefreshObligationStatuses)

	router.POST("/payments", a.ApplyPayment)
	router.GET("/payments/:id", a.GetPayment)
	router.GET("/payments", a.GetAllPayments)
	router.DELETE("/payments/:id", a.DeletePayment)

	router.POST("/receipts", a.ApplyReceipt)
	router.GET("/receipts/:id", a.GetReceipt)
	router.GET("/receipts", a.GetAllReceipts)
	router.DELETE("/receipts/:id", a.DeleteReceipt)

	router.POST("/reconciliations", a.Reconcile)
	router.GET("/reconciliations/:id", a.GetReconciliation)
	router.GET("/reconciliations", a.GetAllReconciliations)
	router.DELETE("/reconciliations/:id", a.Unreconcile)
	router.POST("/reconciliations/suggest", a.SuggestMatches)
	router.POST("/reconciliations/auto", a.AutoReconcile)

	router.POST("/imports/:kind", a.ImportFile)
	router.POST("/dedupe", a.Deduplicate)
	router.POST("/analyze", a.Analyze)
	router.POST("/quick-entry", a.QuickEntry)
	return a.router
}

func NewAPI(c *caixa.Caixa) *Api {
	gin.SetMode(gin.ReleaseMode)
	conf, err := config.Fetch()
	if err != nil {
		return nil
	}
	r := gin.Default()
	r.Use(otelgin.Middleware(conf.ProjectName))
	r.Use(middleware.RateLimitMiddleware(conf))
	if conf.Server.Secure {
		r.Use(middleware.SecretKeyAuthMiddleware(conf))
	}

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{caixa: c, router: r}
}

// respondError writes err with the status its apierror code maps to. Only
// validation details are echoed back to the client.
func respondError(c *gin.Context, err error) {
	status := apierror.MapErrorToHTTPStatus(err)
	body := gin.H{"error": err.Error(), "code": apierror.CodeOf(err)}

	var apiErr apierror.APIError
	if errors.As(err, &apiErr) {
		body["error"] = apiErr.Message
		if apiErr.Code == apierror.ErrInvalidInput {
			switch d := apiErr.Details.(type) {
			case nil:
			case json.Marshaler:
				body["details"] = d
			case error:
				body["details"] = d.Error()
			default:
				body["details"] = d
			}
		}
	}
	if status >= http.StatusInternalServerError {
		logrus.WithFields(logrus.Fields{
			"path":   c.Request.URL.Path,
			"method": c.Request.Method,
		}).WithError(err).Error("request failed")
	}
	c.JSON(status, body)
}

func bindError(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{"errors": err.Error()})
}

func (a Api) today() time.Time {
	return a.caixa.Today()
}
