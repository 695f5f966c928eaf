package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	"go.temporal.io/sdk/client"

	"order-fulfillment/config"
	"order-fulfillment/types"
	"order-fulfillment/workflows"
)

func main() {
	var (
		configPath string
		orderID    string
		customerID string
		productID  string
		quantity   int
		price      float64
		amount     float64
	)
	flag.StringVar(&configPath, "config", "", "path to config file")
	flag.StringVar(&orderID, "order", "", "order ID (generated when empty)")
	flag.StringVar(&customerID, "customer", "customer-1", "customer ID")
	flag.StringVar(&productID, "product", "product-1", "product ID")
	flag.IntVar(&quantity, "quantity", 2, "quantity of the product")
	flag.Float64Var(&price, "price", 25, "unit price")
	flag.Float64Var(&amount, "amount", 0, "order total (quantity*price when 0)")
	flag.Parse()

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalln("Unable to load config", err)
	}

	c, err := client.Dial(client.Options{
		HostPort:  cfg.Temporal.HostPort,
		Namespace: cfg.Temporal.Namespace,
	})
	if err != nil {
		log.Fatalln("Unable to create Temporal client", err)
	}
	defer c.Close()

	if orderID == "" {
		orderID = fmt.Sprintf("order-%d", os.Getpid())
	}
	if amount == 0 {
		amount = float64(quantity) * price
	}

	input := workflows.OrderWorkflowInput{
		Order: types.Order{
			OrderID:     orderID,
			CustomerID:  customerID,
			TotalAmount: amount,
			Items: []types.OrderItem{
				{ProductID: productID, Quantity: quantity, Price: price},
			},
		},
		Options: workflows.WorkflowOptions{
			BranchTimeout:    cfg.Workflow.BranchTimeout,
			ExecutionBudget:  cfg.Workflow.ExecutionBudget,
			MaxAttempts:      cfg.Workflow.MaxAttempts,
			PreferredChannel: cfg.Workflow.PreferredChannel,
		},
	}

	workflowOptions := client.StartWorkflowOptions{
		ID:        "order-fulfillment-" + orderID,
		TaskQueue: cfg.Temporal.TaskQueue,
	}

	log.Printf("Starting order workflow: %s (amount: %.2f)\n", orderID, amount)

	we, err := c.ExecuteWorkflow(context.Background(), workflowOptions, workflows.OrderWorkflow, input)
	if err != nil {
		log.Fatalln("Unable to start workflow", err)
	}
	log.Printf("Started workflow - WorkflowID: %s, RunID: %s\n", we.GetID(), we.GetRunID())

	var exec types.WorkflowExecution
	if err := we.Get(context.Background(), &exec); err != nil {
		log.Fatalln("Workflow execution failed", err)
	}

	log.Printf("Workflow completed - succeeded: %v\n", exec.Succeeded)
	if exec.FailureReason != "" {
		log.Printf("Failure reason: %s\n", exec.FailureReason)
	}
	if exec.Inventory != nil {
		log.Printf("Inventory: %s (stock level %d)\n", exec.Inventory.Status, exec.Inventory.StockLevel)
	}
	if exec.Payment != nil {
		log.Printf("Payment: %s %s\n", exec.Payment.Status, exec.Payment.PaymentMethod)
	}
	if exec.Notification != nil {
		log.Printf("Notification: %s via %s - %s\n",
			exec.Notification.Status, exec.Notification.Channel, exec.Notification.MessagePreview)
	}
	for _, step := range exec.History {
		log.Printf("  %s -> %s %s\n", step.Step, step.State, step.Detail)
	}
}
