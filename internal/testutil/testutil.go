// Package testutil provides an in-memory stand-in for the MRP backend.
// Tests run the real gateway/store/workflow code against a gin router
// serving seeded state, instead of stubbing http.RoundTripper.
package testutil

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"

	"github.com/gin-gonic/gin"

	"github.com/bitfantasy/nimo-mrp/internal/entity"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// Backend is a fake MRP server. Zero value is not usable; call NewBackend.
type Backend struct {
	mu sync.Mutex

	nextID      int
	parts       []entity.Part
	customers   []entity.Customer
	materials   []entity.Material
	inventory   []entity.InventoryItem
	salesOrders []entity.SalesOrder
	bomItems    []entity.BOMItem
	suppliers   []entity.Supplier
	machines    []entity.Machine
	maintenance []entity.MaintenanceRecord
	quality     []entity.QualityCheck
	runs        []entity.ProductionRun

	// CheckResults maps order id -> canned check-materials verdict.
	CheckResults map[int]entity.MaterialCheckResult

	// failures maps a request path to a forced status code.
	failures map[string]int

	// OrderPutBodies records the raw body of every PUT /sales-orders/{id},
	// in receipt order, for byte-level assertions.
	OrderPutBodies [][]byte
}

// NewBackend returns an empty fake backend.
func NewBackend() *Backend {
	return &Backend{
		nextID:       1000,
		CheckResults: make(map[int]entity.MaterialCheckResult),
		failures:     make(map[string]int),
	}
}

// Start runs the backend on an httptest server torn down with the test.
func (b *Backend) Start(t *testing.T) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(b.Router())
	t.Cleanup(srv.Close)
	return srv
}

// FailWith forces every request to path to answer with the given status
// and a {"detail": ...} body until ClearFailures.
func (b *Backend) FailWith(path string, status int) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures[path] = status
}

// ClearFailures removes all forced failures.
func (b *Backend) ClearFailures() {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.failures = make(map[string]int)
}

func (b *Backend) id() int {
	b.nextID++
	return b.nextID
}

// --- seed helpers ---

func (b *Backend) SeedPart(p entity.Part) entity.Part {
	b.mu.Lock()
	defer b.mu.Unlock()
	if p.ID == 0 {
		p.ID = b.id()
	}
	b.parts = append(b.parts, p)
	return p
}

func (b *Backend) SeedCustomer(c entity.Customer) entity.Customer {
	b.mu.Lock()
	defer b.mu.Unlock()
	if c.ID == 0 {
		c.ID = b.id()
	}
	b.customers = append(b.customers, c)
	return c
}

func (b *Backend) SeedMaterial(m entity.Material) entity.Material {
	b.mu.Lock()
	defer b.mu.Unlock()
	if m.ID == 0 {
		m.ID = b.id()
	}
	b.materials = append(b.materials, m)
	return m
}

func (b *Backend) SeedInventoryItem(i entity.InventoryItem) entity.InventoryItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	if i.ID == 0 {
		i.ID = b.id()
	}
	b.inventory = append(b.inventory, i)
	return i
}

func (b *Backend) SeedSalesOrder(o entity.SalesOrder) entity.SalesOrder {
	b.mu.Lock()
	defer b.mu.Unlock()
	if o.ID == 0 {
		o.ID = b.id()
	}
	b.salesOrders = append(b.salesOrders, o)
	return o
}

func (b *Backend) SeedBOMItem(item entity.BOMItem) entity.BOMItem {
	b.mu.Lock()
	defer b.mu.Unlock()
	if item.ID == 0 {
		item.ID = b.id()
	}
	b.bomItems = append(b.bomItems, item)
	return item
}

func (b *Backend) SeedSupplier(s entity.Supplier) entity.Supplier {
	b.mu.Lock()
	defer b.mu.Unlock()
	if s.ID == 0 {
		s.ID = b.id()
	}
	b.suppliers = append(b.suppliers, s)
	return s
}

// SalesOrderByID returns the server-side copy of an order.
func (b *Backend) SalesOrderByID(id int) (entity.SalesOrder, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for _, o := range b.salesOrders {
		if o.ID == id {
			return o, true
		}
	}
	return entity.SalesOrder{}, false
}

// failed aborts with the forced status when one is registered for this
// request's path.
func (b *Backend) failed(c *gin.Context) bool {
	b.mu.Lock()
	status, ok := b.failures[c.Request.URL.Path]
	b.mu.Unlock()
	if ok {
		c.AbortWithStatusJSON(status, gin.H{"detail": "forced failure"})
		return true
	}
	return false
}

// Router builds the gin engine serving the fake API.
func (b *Backend) Router() *gin.Engine {
	r := gin.New()
	r.Use(func(c *gin.Context) {
		if b.failed(c) {
			return
		}
		c.Next()
	})

	r.GET("/parts", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.parts))
	})
	r.POST("/parts", func(c *gin.Context) {
		var req entity.CreatePartRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		part := entity.Part{
			ID:                 b.id(),
			PartNumber:         req.PartNumber,
			Description:        req.Description,
			CustomerID:         req.CustomerID,
			Material:           req.Material,
			Price:              req.Price,
			CycleTime:          req.CycleTime,
			SetupTime:          req.SetupTime,
			CompatibleMachines: req.CompatibleMachines,
		}
		b.parts = append(b.parts, part)
		c.JSON(http.StatusOK, part)
	})
	r.DELETE("/parts/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		kept := b.parts[:0]
		found := false
		for _, p := range b.parts {
			if p.ID == id {
				found = true
				continue
			}
			kept = append(kept, p)
		}
		b.parts = kept
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("part %d not found", id)})
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "deleted"})
	})
	r.GET("/parts/:id/bom", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		items := []entity.BOMItem{}
		for _, item := range b.bomItems {
			if item.ParentPartID == id {
				items = append(items, item)
			}
		}
		c.JSON(http.StatusOK, items)
	})
	r.POST("/bom-items", func(c *gin.Context) {
		var req entity.CreateBOMItemRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		item := entity.BOMItem{
			ID:           b.id(),
			ParentPartID: req.ParentPartID,
			ChildPartID:  req.ChildPartID,
			Quantity:     req.Quantity,
			ProcessStep:  req.ProcessStep,
			SetupTime:    req.SetupTime,
			CycleTime:    req.CycleTime,
			Notes:        req.Notes,
		}
		b.bomItems = append(b.bomItems, item)
		c.JSON(http.StatusOK, item)
	})

	r.GET("/customers", func(c *gin.Context) {
		search := c.Query("search")
		b.mu.Lock()
		defer b.mu.Unlock()
		if search == "" {
			c.JSON(http.StatusOK, orEmpty(b.customers))
			return
		}
		matched := []entity.Customer{}
		for _, cu := range b.customers {
			if containsFold(cu.Name, search) {
				matched = append(matched, cu)
			}
		}
		c.JSON(http.StatusOK, matched)
	})
	r.GET("/customers/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		for _, cu := range b.customers {
			if cu.ID == id {
				c.JSON(http.StatusOK, cu)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("customer %d not found", id)})
	})
	r.POST("/customers", func(c *gin.Context) {
		var req entity.CreateCustomerRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		customer := entity.Customer{
			ID:            b.id(),
			Name:          req.Name,
			Address:       req.Address,
			ContactPerson: req.ContactPerson,
			Email:         req.Email,
			Phone:         req.Phone,
		}
		b.customers = append(b.customers, customer)
		c.JSON(http.StatusOK, customer)
	})

	r.GET("/materials", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.materials))
	})
	r.POST("/materials", func(c *gin.Context) {
		var req entity.CreateMaterialRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		material := entity.Material{
			ID:             b.id(),
			Name:           req.Name,
			Type:           req.Type,
			SupplierID:     req.SupplierID,
			Price:          req.Price,
			MOQ:            req.MOQ,
			LeadTimeDays:   req.LeadTimeDays,
			ReorderPoint:   req.ReorderPoint,
			Specifications: req.Specifications,
		}
		b.materials = append(b.materials, material)
		c.JSON(http.StatusOK, material)
	})

	r.GET("/inventory", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.inventory))
	})
	r.POST("/inventory", func(c *gin.Context) {
		var req entity.CreateInventoryItemRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		item := entity.InventoryItem{
			ID:          b.id(),
			MaterialID:  req.MaterialID,
			Quantity:    req.Quantity,
			BatchNumber: req.BatchNumber,
			Location:    req.Location,
			Status:      req.Status,
			ExpiryDate:  req.ExpiryDate,
		}
		b.inventory = append(b.inventory, item)
		c.JSON(http.StatusOK, item)
	})

	r.GET("/sales-orders", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.salesOrders))
	})
	r.POST("/sales-orders", func(c *gin.Context) {
		var req entity.CreateSalesOrderRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		order := entity.SalesOrder{
			ID:              b.id(),
			OrderNumber:     req.OrderNumber,
			Customer:        entity.CustomerRef{ID: req.CustomerID},
			DueDate:         req.DueDate,
			Status:          req.Status,
			PaymentTerms:    req.PaymentTerms,
			ShippingAddress: req.ShippingAddress,
			Notes:           req.Notes,
		}
		for _, cu := range b.customers {
			if cu.ID == req.CustomerID {
				order.Customer.Name = cu.Name
			}
		}
		for _, li := range req.LineItems {
			order.TotalAmount = order.TotalAmount.Add(li.TotalAmount)
			order.LineItems = append(order.LineItems, entity.LineItem{
				ID:          b.id(),
				PartID:      li.PartID,
				Quantity:    li.Quantity,
				UnitPrice:   li.UnitPrice,
				TotalAmount: li.TotalAmount,
			})
		}
		b.salesOrders = append(b.salesOrders, order)
		c.JSON(http.StatusOK, order)
	})
	r.PUT("/sales-orders/:id", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		raw, err := io.ReadAll(c.Request.Body)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "unreadable body"})
			return
		}
		var order entity.SalesOrder
		if err := json.Unmarshal(raw, &order); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "malformed order"})
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		b.OrderPutBodies = append(b.OrderPutBodies, raw)
		for i := range b.salesOrders {
			if b.salesOrders[i].ID == id {
				order.ID = id
				b.salesOrders[i] = order
				c.JSON(http.StatusOK, order)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"detail": fmt.Sprintf("sales order %d not found", id)})
	})
	r.GET("/sales-orders/:id/check-materials", func(c *gin.Context) {
		id, _ := strconv.Atoi(c.Param("id"))
		b.mu.Lock()
		defer b.mu.Unlock()
		result, ok := b.CheckResults[id]
		if !ok {
			// default to sufficient when the test seeded no verdict
			result = entity.MaterialCheckResult{HasSufficientMaterials: true}
		}
		c.JSON(http.StatusOK, result)
	})

	r.GET("/suppliers", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.suppliers))
	})
	r.POST("/suppliers", func(c *gin.Context) {
		var req entity.CreateSupplierRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		supplier := entity.Supplier{
			ID:           b.id(),
			Name:         req.Name,
			ContactInfo:  req.ContactInfo,
			LeadTimeDays: req.LeadTimeDays,
			Rating:       req.Rating,
			Active:       req.Active,
		}
		b.suppliers = append(b.suppliers, supplier)
		c.JSON(http.StatusOK, supplier)
	})

	r.GET("/machines", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.machines))
	})
	r.POST("/machines", func(c *gin.Context) {
		var req entity.CreateMachineRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		machine := entity.Machine{
			ID:            b.id(),
			Name:          req.Name,
			Status:        req.Status,
			CurrentShifts: req.CurrentShifts,
			HoursPerShift: req.HoursPerShift,
			CurrentJob:    req.CurrentJob,
		}
		b.machines = append(b.machines, machine)
		c.JSON(http.StatusOK, machine)
	})

	r.GET("/maintenance-records", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.maintenance))
	})
	r.POST("/maintenance-records", func(c *gin.Context) {
		var req entity.CreateMaintenanceRecordRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		record := entity.MaintenanceRecord{
			ID:          b.id(),
			MachineID:   req.MachineID,
			Type:        req.Type,
			Description: req.Description,
			StartTime:   req.StartTime,
			EndTime:     req.EndTime,
			Technician:  req.Technician,
			PartsUsed:   req.PartsUsed,
			Cost:        req.Cost,
			Status:      req.Status,
		}
		b.maintenance = append(b.maintenance, record)
		c.JSON(http.StatusOK, record)
	})

	r.GET("/quality-checks", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.quality))
	})
	r.POST("/quality-checks", func(c *gin.Context) {
		var req entity.CreateQualityCheckRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		check := entity.QualityCheck{
			ID:               b.id(),
			PartID:           req.PartID,
			QuantityChecked:  req.QuantityChecked,
			QuantityRejected: req.QuantityRejected,
			Notes:            req.Notes,
			Status:           req.Status,
		}
		b.quality = append(b.quality, check)
		c.JSON(http.StatusOK, check)
	})

	r.GET("/production-runs", func(c *gin.Context) {
		b.mu.Lock()
		defer b.mu.Unlock()
		c.JSON(http.StatusOK, orEmpty(b.runs))
	})
	r.POST("/production-runs", func(c *gin.Context) {
		var req entity.CreateProductionRunRequest
		if err := c.BindJSON(&req); err != nil {
			return
		}
		b.mu.Lock()
		defer b.mu.Unlock()
		run := entity.ProductionRun{
			ID:        b.id(),
			RunNumber: fmt.Sprintf("RUN-%04d", b.nextID),
			PartID:    req.PartID,
			Quantity:  req.Quantity,
			StartTime: req.StartTime,
			Status:    req.Status,
		}
		b.runs = append(b.runs, run)
		c.JSON(http.StatusOK, run)
	})

	r.GET("/csv/export/:entity", func(c *gin.Context) {
		name := c.Param("entity")
		c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%s.csv", name))
		c.Data(http.StatusOK, "text/csv", []byte("id,name\n1,"+name+"\n"))
	})
	r.POST("/csv/import/:entity", func(c *gin.Context) {
		file, err := c.FormFile("file")
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"detail": "missing file field"})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"message": fmt.Sprintf("imported %s into %s", file.Filename, c.Param("entity")),
		})
	})

	return r
}

// orEmpty keeps nil slices rendering as [] instead of null.
func orEmpty[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

func containsFold(haystack, needle string) bool {
	h, n := []rune(haystack), []rune(needle)
	if len(n) == 0 {
		return true
	}
	lower := func(r rune) rune {
		if r >= 'A' && r <= 'Z' {
			return r + 'a' - 'A'
		}
		return r
	}
outer:
	for i := 0; i+len(n) <= len(h); i++ {
		for j := range n {
			if lower(h[i+j]) != lower(n[j]) {
				continue outer
			}
		}
		return true
	}
	return false
}
