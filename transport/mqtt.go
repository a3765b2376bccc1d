/*
 * Copyright 2026 The Sequencer Authors.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package transport

import (
	"context"
	"encoding/json"
	"fmt"

	mqtt "github.com/eclipse/paho.mqtt.golang"

	"github.com/clusterseq/sequencer/types"
)

// mqttEnvelope is the wire payload published on the command topic and
// expected back on the result topic.
type mqttEnvelope struct {
	ActionID string `json:"action_id"`
	Command  string `json:"command,omitempty"`
	ExitCode int    `json:"exit_code,omitempty"`
	Stdout   string `json:"stdout,omitempty"`
	Stderr   string `json:"stderr,omitempty"`
}

// MQTTDispatcher runs actions on hosts fronted by an MQTT agent instead of
// a direct SSH session: it publishes the command on
// "<prefix>/<host>/cmd" and waits for the matching reply on
// "<prefix>/<host>/result", correlated by the action id (spec §5 domain
// stack wiring).
type MQTTDispatcher struct {
	client mqtt.Client
	prefix string
	qos    byte
}

// NewMQTTDispatcher wraps an already-connected client. prefix is the topic
// root (e.g. "clusterseq"); qos is applied to both publish and subscribe.
func NewMQTTDispatcher(client mqtt.Client, prefix string, qos byte) *MQTTDispatcher {
	return &MQTTDispatcher{client: client, prefix: prefix, qos: qos}
}

func (d *MQTTDispatcher) Dispatch(ctx context.Context, a *types.ActionInstr) (Result, error) {
	host, err := Host(a)
	if err != nil {
		return Result{}, err
	}
	cmdTopic := fmt.Sprintf("%s/%s/cmd", d.prefix, host)
	resultTopic := fmt.Sprintf("%s/%s/result", d.prefix, host)

	replies := make(chan mqttEnvelope, 1)
	sub := d.client.Subscribe(resultTopic, d.qos, func(_ mqtt.Client, msg mqtt.Message) {
		var env mqttEnvelope
		if err := json.Unmarshal(msg.Payload(), &env); err != nil {
			return
		}
		if env.ActionID != a.ID {
			return
		}
		select {
		case replies <- env:
		default:
		}
	})
	if sub.Wait(); sub.Error() != nil {
		return Result{}, fmt.Errorf("mqtt: subscribe %s: %w", resultTopic, sub.Error())
	}
	defer d.client.Unsubscribe(resultTopic)

	payload, err := json.Marshal(mqttEnvelope{ActionID: a.ID, Command: a.Command})
	if err != nil {
		return Result{}, err
	}
	pub := d.client.Publish(cmdTopic, d.qos, false, payload)
	if pub.Wait(); pub.Error() != nil {
		return Result{}, fmt.Errorf("mqtt: publish %s: %w", cmdTopic, pub.Error())
	}

	select {
	case <-ctx.Done():
		return Result{}, ctx.Err()
	case env := <-replies:
		return Result{ExitCode: env.ExitCode, Stdout: env.Stdout, Stderr: env.Stderr}, nil
	}
}
